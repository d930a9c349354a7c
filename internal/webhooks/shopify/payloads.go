package shopify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/enums"
)

// Money accepts Shopify monetary values, which arrive as JSON strings on most
// resources and as bare numbers on a few (refund line item subtotals).
type Money float64

func (m *Money) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*m = 0
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		if s == "" {
			*m = 0
			return nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return fmt.Errorf("parse money %q: %w", s, err)
		}
		*m = Money(d.InexactFloat64())
		return nil
	}
	var f float64
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return err
	}
	*m = Money(f)
	return nil
}

// Float64 returns the parsed value.
func (m Money) Float64() float64 {
	return float64(m)
}

// CustomerPayload mirrors the customer resource shared by customer events and
// the embedded customer on order events. TotalSpent/OrdersCount are only
// seeds; steady-state aggregates are recomputed from the order set.
type CustomerPayload struct {
	ID          int64   `json:"id"`
	Email       *string `json:"email"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	TotalSpent  Money   `json:"total_spent"`
	OrdersCount int     `json:"orders_count"`
}

// LineItemPayload is the subset of line item fields used for opportunistic
// product upserts from orders and checkouts.
type LineItemPayload struct {
	ProductID *int64  `json:"product_id"`
	Title     string  `json:"title"`
	Vendor    *string `json:"vendor"`
	Price     Money   `json:"price"`
	Quantity  int     `json:"quantity"`
}

// OrderPayload mirrors the order resource.
type OrderPayload struct {
	ID            int64             `json:"id"`
	TotalPrice    Money             `json:"total_price"`
	Currency      string            `json:"currency"`
	CheckoutToken *string           `json:"checkout_token"`
	Customer      *CustomerPayload  `json:"customer"`
	LineItems     []LineItemPayload `json:"line_items"`
}

// VariantPayload carries the priced variant of a product event.
type VariantPayload struct {
	ID    int64 `json:"id"`
	Price Money `json:"price"`
}

// ProductPayload mirrors the product resource.
type ProductPayload struct {
	ID       int64            `json:"id"`
	Title    string           `json:"title"`
	Vendor   *string          `json:"vendor"`
	Variants []VariantPayload `json:"variants"`
}

// Price returns the first variant price, or zero when no variant is present.
func (p ProductPayload) Price() float64 {
	if len(p.Variants) == 0 {
		return 0
	}
	return p.Variants[0].Price.Float64()
}

// CheckoutPayload mirrors the checkout resource. Token is the string key that
// order events reference through checkout_token.
type CheckoutPayload struct {
	ID          int64             `json:"id"`
	Token       string            `json:"token"`
	CartToken   *string           `json:"cart_token"`
	CompletedAt *time.Time        `json:"completed_at"`
	TotalPrice  Money             `json:"total_price"`
	LineItems   []LineItemPayload `json:"line_items"`
}

// CheckoutID returns the natural key for the checkout: the token when
// present, otherwise the numeric id in string form.
func (p CheckoutPayload) CheckoutID() string {
	if p.Token != "" {
		return p.Token
	}
	return strconv.FormatInt(p.ID, 10)
}

// CartPayload mirrors the cart resource. Cart events carry very limited
// fields and never create checkout financial state.
type CartPayload struct {
	ID    string `json:"id"`
	Token string `json:"token"`
}

// CartToken returns the correlation token for the cart.
func (p CartPayload) CartToken() string {
	if p.Token != "" {
		return p.Token
	}
	return p.ID
}

// TransactionPayload is a monetary transaction attached to a refund.
type TransactionPayload struct {
	ID       int64  `json:"id"`
	Amount   Money  `json:"amount"`
	Currency string `json:"currency"`
}

// RefundLineItemPayload is a refunded line with its subtotal.
type RefundLineItemPayload struct {
	ID       int64 `json:"id"`
	Subtotal Money `json:"subtotal"`
}

// RefundPayload mirrors the refund resource.
type RefundPayload struct {
	ID              int64                   `json:"id"`
	OrderID         int64                   `json:"order_id"`
	Transactions    []TransactionPayload    `json:"transactions"`
	RefundLineItems []RefundLineItemPayload `json:"refund_line_items"`
}

// Amount returns the refunded total, preferring transaction amounts over
// line item subtotals, with the matching currency (USD when unknown).
func (p RefundPayload) Amount() (float64, string) {
	if len(p.Transactions) > 0 {
		total := decimal.Zero
		currency := "USD"
		for _, tx := range p.Transactions {
			total = total.Add(decimal.NewFromFloat(tx.Amount.Float64()))
		}
		if p.Transactions[0].Currency != "" {
			currency = p.Transactions[0].Currency
		}
		return total.InexactFloat64(), currency
	}
	if len(p.RefundLineItems) > 0 {
		total := decimal.Zero
		for _, line := range p.RefundLineItems {
			total = total.Add(decimal.NewFromFloat(line.Subtotal.Float64()))
		}
		return total.InexactFloat64(), "USD"
	}
	return 0, "USD"
}

// Event is the closed set of payload variants produced at the router
// boundary. Exactly one pointer is set for handled topics; unknown topics
// yield Unhandled.
type Event struct {
	Topic     enums.WebhookTopic
	Unhandled bool

	Order    *OrderPayload
	Customer *CustomerPayload
	Product  *ProductPayload
	Checkout *CheckoutPayload
	Cart     *CartPayload
	Refund   *RefundPayload
}

// ParseEvent validates and decodes the raw body for the given topic. Unknown
// topics produce an Unhandled event rather than an error.
func ParseEvent(topic string, raw []byte) (Event, error) {
	t := enums.WebhookTopic(topic)
	if !t.IsHandled() {
		return Event{Topic: t, Unhandled: true}, nil
	}

	event := Event{Topic: t}
	switch t {
	case enums.TopicOrdersCreate, enums.TopicOrdersUpdated:
		var payload OrderPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return Event{}, fmt.Errorf("decode order payload: %w", err)
		}
		event.Order = &payload
	case enums.TopicCustomersCreate, enums.TopicCustomersUpdate:
		var payload CustomerPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return Event{}, fmt.Errorf("decode customer payload: %w", err)
		}
		event.Customer = &payload
	case enums.TopicProductsCreate, enums.TopicProductsUpdate:
		var payload ProductPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return Event{}, fmt.Errorf("decode product payload: %w", err)
		}
		event.Product = &payload
	case enums.TopicCheckoutsCreate, enums.TopicCheckoutsUpdate:
		var payload CheckoutPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return Event{}, fmt.Errorf("decode checkout payload: %w", err)
		}
		event.Checkout = &payload
	case enums.TopicCartsCreate, enums.TopicCartsUpdate:
		var payload CartPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return Event{}, fmt.Errorf("decode cart payload: %w", err)
		}
		event.Cart = &payload
	case enums.TopicRefundsCreate:
		var payload RefundPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return Event{}, fmt.Errorf("decode refund payload: %w", err)
		}
		event.Refund = &payload
	}
	return event, nil
}
