package catalog

// Product mirrors the upstream commerce API's product payload. Prices stay
// decimal-as-string exactly as the remote sends them; they are only parsed
// when totals are computed.
type Product struct {
	ID               int               `json:"id"`
	Name             string            `json:"name"`
	SKU              string            `json:"sku"`
	Price            string            `json:"price"`
	RegularPrice     string            `json:"regular_price"`
	StockQuantity    *int              `json:"stock_quantity"`
	Images           []ProductImage    `json:"images"`
	Categories       []ProductCategory `json:"categories"`
	Description      string            `json:"description,omitempty"`
	ShortDescription string            `json:"short_description,omitempty"`
}

type ProductImage struct {
	ID  int    `json:"id"`
	Src string `json:"src"`
	Alt string `json:"alt"`
}

type ProductCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// PrimaryImage returns the first image source, or empty when none exist.
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].Src
}

// InStock reports availability; untracked products are always sellable.
func (p Product) InStock() bool {
	return p.StockQuantity == nil || *p.StockQuantity > 0
}

type Order struct {
	ID                 int             `json:"id"`
	Number             string          `json:"number"`
	Status             string          `json:"status"`
	Currency           string          `json:"currency"`
	DateCreated        string          `json:"date_created"`
	DiscountTotal      string          `json:"discount_total"`
	ShippingTotal      string          `json:"shipping_total"`
	CartTax            string          `json:"cart_tax"`
	Total              string          `json:"total"`
	TotalTax           string          `json:"total_tax"`
	CustomerID         int             `json:"customer_id"`
	CustomerNote       string          `json:"customer_note"`
	PaymentMethod      string          `json:"payment_method"`
	PaymentMethodTitle string          `json:"payment_method_title"`
	Billing            Address         `json:"billing"`
	Shipping           Address         `json:"shipping"`
	LineItems          []OrderLineItem `json:"line_items"`
}

type OrderLineItem struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	ProductID int     `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Subtotal  string  `json:"subtotal"`
	Total     string  `json:"total"`
	SKU       string  `json:"sku"`
	Price     float64 `json:"price"`
}

type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company,omitempty"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2,omitempty"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// CreateOrderInput is the draft sent to the remote order-creation endpoint.
type CreateOrderInput struct {
	PaymentMethod      string                `json:"payment_method,omitempty"`
	PaymentMethodTitle string                `json:"payment_method_title,omitempty"`
	SetPaid            bool                  `json:"set_paid,omitempty"`
	CustomerID         int                   `json:"customer_id,omitempty"`
	CustomerNote       string                `json:"customer_note,omitempty"`
	Billing            *Address              `json:"billing,omitempty"`
	Shipping           *Address              `json:"shipping,omitempty"`
	LineItems          []CreateOrderLineItem `json:"line_items"`
}

type CreateOrderLineItem struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

type Customer struct {
	ID        int     `json:"id"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Username  string  `json:"username"`
	AvatarURL string  `json:"avatar_url,omitempty"`
	Billing   Address `json:"billing"`
	Shipping  Address `json:"shipping"`
}
