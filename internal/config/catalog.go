package config

import (
	"errors"
	"fmt"
	"os"

	"gym_club_backend/internal/models"

	"gopkg.in/yaml.v3"
)

// ErrInvalidCatalog is returned when a catalog file fails validation.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Bank is a bank-transfer option with its admin fee and VA prefix.
type Bank struct {
	Code     string  `json:"code" yaml:"code"`
	Name     string  `json:"name" yaml:"name"`
	AdminFee float64 `json:"admin_fee" yaml:"admin_fee"`
	VAPrefix string  `json:"-" yaml:"va_prefix"`
}

// Wallet is an e-wallet option.
type Wallet struct {
	Code     string  `json:"code" yaml:"code"`
	Name     string  `json:"name" yaml:"name"`
	AdminFee float64 `json:"admin_fee" yaml:"admin_fee"`
}

// PaymentMethod is one gateway payment method.
type PaymentMethod struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	AdminFee    float64  `json:"admin_fee" yaml:"admin_fee"`
	Banks       []Bank   `json:"banks,omitempty" yaml:"banks"`
	Wallets     []Wallet `json:"wallets,omitempty" yaml:"wallets"`
}

// Catalog is the immutable plan and payment-method configuration.
// It is built once at start-up and shared read-only by the services.
type Catalog struct {
	plans          []models.Plan
	paymentMethods []PaymentMethod
	defaultPrefix  string
}

type catalogFile struct {
	Plans           []models.Plan   `yaml:"plans"`
	PaymentMethods  []PaymentMethod `yaml:"payment_methods"`
	DefaultVAPrefix string          `yaml:"default_va_prefix"`
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	c, err := newCatalog(catalogFile{
		Plans: []models.Plan{
			{ID: 1, Name: "Basic", Description: "Access to basic classes", Price: 150000, DurationDays: 30, ClassLimit: 8},
			{ID: 2, Name: "Premium", Description: "Access to all classes + personal training", Price: 300000, DurationDays: 30, ClassLimit: 16},
			{ID: 3, Name: "VIP", Description: "Unlimited access + priority booking", Price: 500000, DurationDays: 30, ClassLimit: models.UnlimitedClasses},
		},
		PaymentMethods: []PaymentMethod{
			{
				ID: models.PaymentMethodBankTransfer, Name: "Bank Transfer", Description: "Transfer via Virtual Account",
				Banks: []Bank{
					{Code: "bca", Name: "BCA", AdminFee: 4000, VAPrefix: "1234"},
					{Code: "bni", Name: "BNI", AdminFee: 4000, VAPrefix: "8810"},
					{Code: "bri", Name: "BRI", AdminFee: 4000, VAPrefix: "0023"},
					{Code: "mandiri", Name: "Mandiri", AdminFee: 4000, VAPrefix: "8900"},
				},
			},
			{
				ID: models.PaymentMethodEWallet, Name: "E-Wallet", Description: "Pay with a digital wallet",
				Wallets: []Wallet{
					{Code: "gopay", Name: "GoPay"},
					{Code: "ovo", Name: "OVO"},
					{Code: "dana", Name: "DANA"},
					{Code: "shopeepay", Name: "ShopeePay"},
				},
			},
			{ID: models.PaymentMethodQRIS, Name: "QRIS", Description: "Scan a QR code to pay"},
			{ID: models.PaymentMethodCreditCard, Name: "Credit Card", Description: "Visa, Mastercard, JCB"},
		},
		DefaultVAPrefix: "9999",
	})
	if err != nil {
		panic(fmt.Sprintf("built-in catalog is invalid: %v", err))
	}
	return c
}

// LoadCatalog reads a YAML catalog from path. An empty path yields the default.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read catalog file %s: %w", path, err)
	}
	return ParseCatalog(content)
}

// ParseCatalog decodes and validates a YAML catalog document.
func ParseCatalog(content []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(content, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return newCatalog(f)
}

func newCatalog(f catalogFile) (*Catalog, error) {
	if len(f.Plans) == 0 {
		return nil, fmt.Errorf("%w: at least one plan is required", ErrInvalidCatalog)
	}
	seenIDs := make(map[int]bool)
	seenNames := make(map[string]bool)
	for _, p := range f.Plans {
		if p.Name == "" || p.DurationDays <= 0 || p.Price < 0 {
			return nil, fmt.Errorf("%w: plan %d needs a name, a positive duration and a non-negative price", ErrInvalidCatalog, p.ID)
		}
		if p.ClassLimit < models.UnlimitedClasses {
			return nil, fmt.Errorf("%w: plan %q has an invalid class limit %d", ErrInvalidCatalog, p.Name, p.ClassLimit)
		}
		if seenIDs[p.ID] || seenNames[p.Name] {
			return nil, fmt.Errorf("%w: duplicate plan %d/%q", ErrInvalidCatalog, p.ID, p.Name)
		}
		seenIDs[p.ID] = true
		seenNames[p.Name] = true
	}
	for _, m := range f.PaymentMethods {
		if m.ID == "" {
			return nil, fmt.Errorf("%w: payment method without id", ErrInvalidCatalog)
		}
	}
	prefix := f.DefaultVAPrefix
	if prefix == "" {
		prefix = "9999"
	}
	return &Catalog{
		plans:          append([]models.Plan(nil), f.Plans...),
		paymentMethods: append([]PaymentMethod(nil), f.PaymentMethods...),
		defaultPrefix:  prefix,
	}, nil
}

// Plans returns a copy of the plan list.
func (c *Catalog) Plans() []models.Plan {
	return append([]models.Plan(nil), c.plans...)
}

// PlanByID looks a plan up by its catalog id.
func (c *Catalog) PlanByID(id int) (models.Plan, bool) {
	for _, p := range c.plans {
		if p.ID == id {
			return p, true
		}
	}
	return models.Plan{}, false
}

// PlanByName looks a plan up by the name stored on members and payments.
func (c *Catalog) PlanByName(name string) (models.Plan, bool) {
	for _, p := range c.plans {
		if p.Name == name {
			return p, true
		}
	}
	return models.Plan{}, false
}

// PaymentMethods returns a copy of the payment method list.
func (c *Catalog) PaymentMethods() []PaymentMethod {
	return append([]PaymentMethod(nil), c.paymentMethods...)
}

// PaymentMethod looks a payment method up by id.
func (c *Catalog) PaymentMethod(id string) (PaymentMethod, bool) {
	for _, m := range c.paymentMethods {
		if m.ID == id {
			return m, true
		}
	}
	return PaymentMethod{}, false
}

// AdminFee returns the fee charged on top of the plan price. Only bank
// transfers carry one; unknown details cost nothing.
func (c *Catalog) AdminFee(methodID, detail string) float64 {
	m, ok := c.PaymentMethod(methodID)
	if !ok {
		return 0
	}
	for _, b := range m.Banks {
		if b.Code == detail {
			return b.AdminFee
		}
	}
	for _, w := range m.Wallets {
		if w.Code == detail {
			return w.AdminFee
		}
	}
	return m.AdminFee
}

// VAPrefix returns the virtual-account prefix for a bank code.
func (c *Catalog) VAPrefix(bankCode string) string {
	if m, ok := c.PaymentMethod(models.PaymentMethodBankTransfer); ok {
		for _, b := range m.Banks {
			if b.Code == bankCode && b.VAPrefix != "" {
				return b.VAPrefix
			}
		}
	}
	return c.defaultPrefix
}
