package handler

// AddToCartDTO is the JSON body returned by GET /add-to-cart.
type AddToCartDTO struct {
	Message   string `json:"message"`
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// AuthStatusDTO is the JSON body returned by GET /auth/status. User is
// null for anonymous visitors.
type AuthStatusDTO struct {
	User *string `json:"user"`
}
