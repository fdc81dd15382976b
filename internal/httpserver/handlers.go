package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/orders"
	"storefront/internal/resource"
)

// renderSnapshot writes a resource snapshot as the page's view state: the
// lifecycle state always, the value under key only when ready, the error
// message only when failed.
func renderSnapshot[T any](c *gin.Context, snap resource.Snapshot[T], key string) {
	body := gin.H{"state": snap.State.String()}
	switch snap.State {
	case resource.Ready:
		body[key] = snap.Value
	case resource.Error:
		body["error"] = snap.Err
	}
	c.JSON(http.StatusOK, body)
}

func homeHandler(c *gin.Context) {
	c.JSON(http.StatusOK, controllers(c).Home.Content())
}

func productListHandler(c *gin.Context) {
	ctrl := controllers(c).ProductList
	ctrl.Load(c.Request.Context())
	renderSnapshot(c, ctrl.Snapshot(), "products")
}

func productDetailHandler(c *gin.Context) {
	ctrl := controllers(c).ProductDetail
	ctrl.Load(c.Request.Context(), c.Param("id"))
	renderSnapshot(c, ctrl.Snapshot(), "product")
}

func productAddToCartHandler(c *gin.Context) {
	set := controllers(c)
	set.ProductDetail.Load(c.Request.Context(), c.Param("id"))
	view, ok := set.ProductDetail.AddToCart()
	if !ok {
		snap := set.ProductDetail.Snapshot()
		c.JSON(http.StatusNotFound, gin.H{"error": snap.Err})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": view})
}

func productDeleteHandler(c *gin.Context) {
	if err := controllers(c).ProductList.Delete(c.Request.Context(), c.Param("id")); err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, domain.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func addProductHandler(c *gin.Context) {
	var form catalog.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	id, fieldErrs, err := controllers(c).AddProduct.Submit(c.Request.Context(), form)
	if len(fieldErrs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": fieldErrs})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create product. Please try again."})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func editProductLoadHandler(c *gin.Context) {
	ctrl := controllers(c).EditProduct
	ctrl.Load(c.Request.Context(), c.Param("id"))
	renderSnapshot(c, ctrl.Snapshot(), "product")
}

func editProductSubmitHandler(c *gin.Context) {
	var form catalog.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	fieldErrs, err := controllers(c).EditProduct.Submit(c.Request.Context(), c.Param("id"), form)
	if len(fieldErrs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": fieldErrs})
		return
	}
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, domain.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "Failed to update product. Please try again."})
		return
	}
	c.Status(http.StatusNoContent)
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func registerHandler(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	account, err := controllers(c).Register.Submit(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"account": account, "token": currentSession(c).AuthToken()})
}

func loginHandler(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	account, err := controllers(c).Login.Submit(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": account, "token": currentSession(c).AuthToken()})
}

func logoutHandler(c *gin.Context) {
	if err := controllers(c).Login.SignOut(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func profileHandler(c *gin.Context) {
	ctrl := controllers(c).Profile
	if err := ctrl.Load(c.Request.Context()); errors.Is(err, domain.ErrSignInRequired) {
		c.JSON(http.StatusUnauthorized, gin.H{"state": "signInRequired"})
		return
	}
	renderSnapshot(c, ctrl.Snapshot(), "profile")
}

type profileSaveRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

func profileSaveHandler(c *gin.Context) {
	var req profileSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	ctrl := controllers(c).Profile
	if err := ctrl.Save(c.Request.Context(), req.Name, req.Address); err != nil {
		if errors.Is(err, domain.ErrSignInRequired) {
			c.JSON(http.StatusUnauthorized, gin.H{"state": "signInRequired"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to update profile."})
		return
	}
	renderSnapshot(c, ctrl.Snapshot(), "profile")
}

func profileDeleteHandler(c *gin.Context) {
	if err := controllers(c).Profile.DeleteAccount(c.Request.Context()); err != nil {
		if errors.Is(err, domain.ErrSignInRequired) {
			c.JSON(http.StatusUnauthorized, gin.H{"state": "signInRequired"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to delete account."})
		return
	}
	c.Status(http.StatusNoContent)
}

func orderHistoryHandler(c *gin.Context) {
	ctrl := controllers(c).OrderHistory
	if err := ctrl.Load(c.Request.Context()); errors.Is(err, domain.ErrSignInRequired) {
		c.JSON(http.StatusUnauthorized, gin.H{"state": "signInRequired"})
		return
	}
	renderSnapshot(c, ctrl.Snapshot(), "orders")
}

func orderDetailHandler(c *gin.Context) {
	ctrl := controllers(c).OrderDetail
	ctrl.Load(c.Request.Context(), c.Param("id"))
	renderSnapshot(c, ctrl.Snapshot(), "order")
}

func cartHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"cart": controllers(c).CartPage.View()})
}

type cartAddRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

func cartAddHandler(c *gin.Context) {
	var req cartAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId required"})
		return
	}
	view, err := controllers(c).CartPage.AddByID(c.Request.Context(), req.ProductID)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, domain.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": view})
}

func cartRemoveHandler(c *gin.Context) {
	view := controllers(c).CartPage.Remove(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"cart": view})
}

func cartClearHandler(c *gin.Context) {
	view := controllers(c).CartPage.Clear()
	c.JSON(http.StatusOK, gin.H{"cart": view})
}

func checkoutHandler(c *gin.Context) {
	c.JSON(http.StatusOK, controllers(c).Checkout.View())
}

func checkoutSubmitHandler(c *gin.Context) {
	var in orders.CheckoutInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	view := controllers(c).Checkout.Submit(c.Request.Context(), in)
	status := http.StatusOK
	switch view.State {
	case orders.CheckoutPlaced:
		status = http.StatusCreated
	case orders.CheckoutSignInRequired:
		status = http.StatusUnauthorized
	case orders.CheckoutForm:
		if len(view.FieldErrors) > 0 {
			status = http.StatusUnprocessableEntity
		} else if view.Error != "" {
			status = http.StatusBadGateway
		}
	}
	c.JSON(status, view)
}
