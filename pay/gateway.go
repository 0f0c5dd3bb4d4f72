// Package pay holds the payment-gateway boundary. There is no real gateway
// integration: checkout hands the buyer an opaque redirect URL and payment
// confirmation arrives later through the order payment endpoint.
package pay

type OrderSession struct {
	URL     string
	OrderID string
	Amount  float64
}

// CreateOrderSession returns a redirect session for a non-COD checkout,
// keyed by the first order created in the checkout.
func CreateOrderSession(orderID string, amount float64) (OrderSession, error) {
	var s OrderSession
	s.URL = "https://paymentgateway.com/pay?orderId=" + orderID
	s.OrderID = orderID
	s.Amount = amount
	var err error
	return s, err
}
