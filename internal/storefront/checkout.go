package storefront

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gachwala/storefront/internal/apperror"
	"github.com/gachwala/storefront/internal/dto"
	"github.com/gachwala/storefront/internal/model"
)

var (
	ShippingFee = decimal.NewFromInt(50)
	DeliveryFee = decimal.NewFromInt(30)
)

var (
	ErrNothingToCheckout = apperror.Validation("cart is empty")
	ErrShippingDetails   = apperror.Validation("Please fill in all required fields")
	ErrLoginRequired     = apperror.Auth("Please login to place an order")
	ErrSubmitting        = apperror.Conflict("order is already being placed")
)

type State int

const (
	StateBrowsing State = iota
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateBrowsing:
		return "browsing"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Form is the shipping form shown on the checkout page.
type Form struct {
	Name          string
	Phone         string
	Email         string
	Street        string
	City          string
	State         string
	ZipCode       string
	PaymentMethod model.PaymentMethod
}

func (f Form) complete() bool {
	for _, v := range []string{f.Name, f.Phone, f.Street, f.City} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// Confirmation is what the success page shows after the cart is cleared.
type Confirmation struct {
	OrderID       uuid.UUID
	Subtotal      decimal.Decimal
	ShippingFee   decimal.Decimal
	DeliveryFee   decimal.Decimal
	TotalAmount   decimal.Decimal
	PaymentMethod model.PaymentMethod
}

type Totals struct {
	Subtotal    decimal.Decimal
	ShippingFee decimal.Decimal
	DeliveryFee decimal.Decimal
	TotalAmount decimal.Decimal
}

type Checkout struct {
	app          *App
	state        State
	form         Form
	confirmation *Confirmation
	err          error
}

func NewCheckout(app *App) *Checkout {
	return &Checkout{app: app, form: Form{PaymentMethod: model.PaymentCashOnDelivery}}
}

func (c *Checkout) State() State                { return c.state }
func (c *Checkout) Form() Form                  { return c.form }
func (c *Checkout) Confirmation() *Confirmation { return c.confirmation }

// FailureMessage is the server's message for the last failed submit.
func (c *Checkout) FailureMessage() string {
	if c.err == nil {
		return ""
	}
	return apperror.Message(c.err)
}

// Guard reports ErrNothingToCheckout when there is neither a cart nor a
// placed order to show. Views redirect to the cart on that error.
func (c *Checkout) Guard() error {
	if c.app.Cart.IsEmpty() && c.confirmation == nil {
		return ErrNothingToCheckout
	}
	return nil
}

// Prefill copies the user's contact details and saved address into the form.
func (c *Checkout) Prefill(user *dto.UserResponse) {
	if user == nil {
		return
	}
	c.form.Name = user.Name
	c.form.Phone = user.Phone
	c.form.Email = user.Email
	c.form.Street = user.Address.Street
	c.form.City = user.Address.City
	c.form.State = user.Address.State
	c.form.ZipCode = user.Address.ZipCode
}

// Totals prices the current cart with the fixed fees.
func (c *Checkout) Totals() Totals {
	subtotal := c.app.Cart.TotalPrice()
	return Totals{
		Subtotal:    subtotal,
		ShippingFee: ShippingFee,
		DeliveryFee: DeliveryFee,
		TotalAmount: subtotal.Add(ShippingFee).Add(DeliveryFee),
	}
}

// Submit places the order. Form and session problems are reported without
// a network call. On a server failure the cart and form are left as they
// were so the shopper can retry.
func (c *Checkout) Submit(ctx context.Context, form Form) (*Confirmation, error) {
	if c.state == StateSubmitting {
		return nil, ErrSubmitting
	}
	if c.app.Cart.IsEmpty() {
		return nil, ErrNothingToCheckout
	}
	if form.PaymentMethod == "" {
		form.PaymentMethod = model.PaymentCashOnDelivery
	}
	c.form = form

	if !form.complete() {
		return nil, ErrShippingDetails
	}
	if !c.app.SignedIn() {
		return nil, ErrLoginRequired
	}

	c.state = StateSubmitting
	c.err = nil
	order, err := c.app.Client.CreateOrder(ctx, c.request())
	if err != nil {
		c.state = StateFailed
		c.err = err
		return nil, err
	}

	c.confirmation = &Confirmation{
		OrderID:       order.ID,
		Subtotal:      order.Subtotal,
		ShippingFee:   order.ShippingFee,
		DeliveryFee:   order.DeliveryFee,
		TotalAmount:   order.TotalAmount,
		PaymentMethod: order.PaymentMethod,
	}
	c.app.Cart.Clear()
	c.state = StateSucceeded
	return c.confirmation, nil
}

func (c *Checkout) request() dto.CreateOrderRequest {
	lines := c.app.Cart.Items()
	items := make([]dto.OrderItemPayload, 0, len(lines))
	for _, l := range lines {
		items = append(items, dto.OrderItemPayload{
			ProductID: l.ID,
			Name:      l.Name,
			Price:     l.Price,
			Quantity:  l.Quantity,
			Image:     l.Image,
		})
	}

	totals := c.Totals()
	return dto.CreateOrderRequest{
		Items: items,
		ShippingAddress: dto.ShippingAddressPayload{
			Name:    c.form.Name,
			Phone:   c.form.Phone,
			Email:   c.form.Email,
			Street:  c.form.Street,
			City:    c.form.City,
			State:   c.form.State,
			ZipCode: c.form.ZipCode,
		},
		Subtotal:      totals.Subtotal,
		ShippingFee:   totals.ShippingFee,
		DeliveryFee:   totals.DeliveryFee,
		TotalAmount:   totals.TotalAmount,
		PaymentMethod: c.form.PaymentMethod,
	}
}
