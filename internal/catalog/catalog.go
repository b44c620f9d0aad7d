// Package catalog holds the reference rates the calculators are fed with:
// EU VAT rates, US state sales tax rates and salary jurisdictions. A default
// catalog is embedded; deployments can replace it with their own file.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/iwvelando/ratewise/pkg/salary"
	"github.com/iwvelando/ratewise/pkg/tax"
	"gopkg.in/yaml.v3"
)

//go:embed rates.yaml
var defaultRates []byte

// ErrNotFound is returned when a code has no catalog entry.
var ErrNotFound = errors.New("not found")

// Jurisdiction kinds.
const (
	KindUS      = "us"
	KindUK      = "uk"
	KindGeneric = "generic"
)

// VATRate is a country's VAT schedule. Optional rates are nil when the
// country does not levy them.
type VATRate struct {
	CountryCode      string   `yaml:"countryCode" json:"countryCode" validate:"required,len=2,uppercase"`
	CountryName      string   `yaml:"countryName" json:"countryName" validate:"required"`
	StandardRate     float64  `yaml:"standardRate" json:"standardRate" validate:"gte=0,lte=100"`
	ReducedRate      *float64 `yaml:"reducedRate,omitempty" json:"reducedRate,omitempty" validate:"omitempty,gte=0,lte=100"`
	SuperReducedRate *float64 `yaml:"superReducedRate,omitempty" json:"superReducedRate,omitempty" validate:"omitempty,gte=0,lte=100"`
	ParkingRate      *float64 `yaml:"parkingRate,omitempty" json:"parkingRate,omitempty" validate:"omitempty,gte=0,lte=100"`
	Source           string   `yaml:"source,omitempty" json:"source,omitempty"`
}

// SalesTaxRate is a US state's sales tax. AvgLocalRate is informational and
// may be slightly negative where local credits exceed local levies.
type SalesTaxRate struct {
	StateCode    string  `yaml:"stateCode" json:"stateCode" validate:"required,len=2,uppercase"`
	StateName    string  `yaml:"stateName" json:"stateName" validate:"required"`
	StateRate    float64 `yaml:"stateRate" json:"stateRate" validate:"gte=0,lte=100"`
	AvgLocalRate float64 `yaml:"avgLocalRate" json:"avgLocalRate" validate:"gte=-100,lte=100"`
	CombinedRate float64 `yaml:"combinedRate" json:"combinedRate" validate:"gte=0,lte=100"`
	Source       string  `yaml:"source,omitempty" json:"source,omitempty"`
}

// SalaryJurisdiction configures take-home pay for a country.
type SalaryJurisdiction struct {
	CountryCode string        `yaml:"countryCode" json:"countryCode" validate:"required,len=2,uppercase"`
	CountryName string        `yaml:"countryName" json:"countryName" validate:"required"`
	Currency    string        `yaml:"currency" json:"currency" validate:"required,len=3,uppercase"`
	Kind        string        `yaml:"kind" json:"kind" validate:"required,oneof=us uk generic"`
	Brackets    []tax.Bracket `yaml:"brackets" json:"brackets" validate:"required_if=Kind generic"`
	SocialRate  float64       `yaml:"socialRate,omitempty" json:"socialRate,omitempty" validate:"gte=0,lte=100"`
}

// Fallback configures jurisdictions without an entry.
type Fallback struct {
	Currency   string        `yaml:"currency" json:"currency" validate:"required,len=3,uppercase"`
	SocialRate float64       `yaml:"socialRate" json:"socialRate" validate:"gte=0,lte=100"`
	Brackets   []tax.Bracket `yaml:"brackets" json:"brackets" validate:"required"`
}

type document struct {
	VAT      []VATRate            `yaml:"vat" validate:"dive"`
	SalesTax []SalesTaxRate       `yaml:"salesTax" validate:"dive"`
	Salary   []SalaryJurisdiction `yaml:"salary" validate:"dive"`
	Fallback *Fallback            `yaml:"fallback,omitempty" validate:"omitempty"`
}

// Catalog is an immutable, validated set of rates indexed by code.
type Catalog struct {
	vat      map[string]VATRate
	salesTax map[string]SalesTaxRate
	salary   map[string]SalaryJurisdiction
	fallback salary.GenericConfig
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	c, err := Parse(defaultRates)
	if err != nil {
		return nil, fmt.Errorf("built-in catalog: %w", err)
	}
	return c, nil
}

// Load reads the catalog at path, or returns the embedded catalog when path
// is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rate catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rate catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse rate catalog: %w", err)
	}
	if err := validator.New().Struct(doc); err != nil {
		return nil, fmt.Errorf("invalid rate catalog: %w", err)
	}

	c := &Catalog{
		vat:      make(map[string]VATRate, len(doc.VAT)),
		salesTax: make(map[string]SalesTaxRate, len(doc.SalesTax)),
		salary:   make(map[string]SalaryJurisdiction, len(doc.Salary)),
		fallback: salary.FallbackConfig,
	}

	for _, rate := range doc.VAT {
		if _, dup := c.vat[rate.CountryCode]; dup {
			return nil, fmt.Errorf("duplicate VAT rate for %s", rate.CountryCode)
		}
		c.vat[rate.CountryCode] = rate
	}
	for _, rate := range doc.SalesTax {
		if _, dup := c.salesTax[rate.StateCode]; dup {
			return nil, fmt.Errorf("duplicate sales tax rate for %s", rate.StateCode)
		}
		if math.Abs(rate.StateRate+rate.AvgLocalRate-rate.CombinedRate) > 0.011 {
			return nil, fmt.Errorf("sales tax rate for %s: combined rate %g is not state %g plus local %g",
				rate.StateCode, rate.CombinedRate, rate.StateRate, rate.AvgLocalRate)
		}
		c.salesTax[rate.StateCode] = rate
	}
	for _, j := range doc.Salary {
		if _, dup := c.salary[j.CountryCode]; dup {
			return nil, fmt.Errorf("duplicate salary jurisdiction for %s", j.CountryCode)
		}
		if len(j.Brackets) > 0 {
			if err := tax.ValidateBrackets(j.Brackets); err != nil {
				return nil, fmt.Errorf("salary jurisdiction %s: %w", j.CountryCode, err)
			}
		}
		c.salary[j.CountryCode] = j
	}
	if doc.Fallback != nil {
		if err := tax.ValidateBrackets(doc.Fallback.Brackets); err != nil {
			return nil, fmt.Errorf("fallback jurisdiction: %w", err)
		}
		c.fallback = salary.GenericConfig{
			Brackets:   doc.Fallback.Brackets,
			SocialRate: doc.Fallback.SocialRate,
			Currency:   doc.Fallback.Currency,
		}
	}

	return c, nil
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// VATRate returns the VAT schedule for an ISO country code.
func (c *Catalog) VATRate(countryCode string) (VATRate, error) {
	rate, ok := c.vat[normalize(countryCode)]
	if !ok {
		return VATRate{}, fmt.Errorf("VAT rate for %q: %w", countryCode, ErrNotFound)
	}
	return rate, nil
}

// VATRates lists every VAT schedule ordered by country name.
func (c *Catalog) VATRates() []VATRate {
	rates := make([]VATRate, 0, len(c.vat))
	for _, rate := range c.vat {
		rates = append(rates, rate)
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i].CountryName < rates[j].CountryName })
	return rates
}

// SalesTaxRate returns the sales tax for a US state code.
func (c *Catalog) SalesTaxRate(stateCode string) (SalesTaxRate, error) {
	rate, ok := c.salesTax[normalize(stateCode)]
	if !ok {
		return SalesTaxRate{}, fmt.Errorf("sales tax rate for %q: %w", stateCode, ErrNotFound)
	}
	return rate, nil
}

// SalesTaxRates lists every state ordered by name.
func (c *Catalog) SalesTaxRates() []SalesTaxRate {
	rates := make([]SalesTaxRate, 0, len(c.salesTax))
	for _, rate := range c.salesTax {
		rates = append(rates, rate)
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i].StateName < rates[j].StateName })
	return rates
}

// Jurisdiction returns the salary configuration for a country code. UK is
// accepted as an alias of GB.
func (c *Catalog) Jurisdiction(countryCode string) (SalaryJurisdiction, error) {
	code := normalize(countryCode)
	if code == "UK" {
		code = "GB"
	}
	j, ok := c.salary[code]
	if !ok {
		return SalaryJurisdiction{}, fmt.Errorf("salary jurisdiction %q: %w", countryCode, ErrNotFound)
	}
	return j, nil
}

// Jurisdictions lists every salary jurisdiction ordered by country name.
func (c *Catalog) Jurisdictions() []SalaryJurisdiction {
	list := make([]SalaryJurisdiction, 0, len(c.salary))
	for _, j := range c.salary {
		list = append(list, j)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CountryName < list[j].CountryName })
	return list
}

// Fallback returns the configuration applied to unknown jurisdictions.
func (c *Catalog) Fallback() salary.GenericConfig {
	return c.fallback
}

// SalaryRegistry builds a registry with the built-in US and UK calculators,
// one generic calculator per generic jurisdiction, and the catalog fallback.
// UK follows whatever the catalog defines for GB.
func (c *Catalog) SalaryRegistry() (*salary.Registry, error) {
	registry := salary.NewRegistry()
	for _, j := range c.Jurisdictions() {
		switch j.Kind {
		case KindUS:
			registry.Register(j.CountryCode, salary.CalculateUS)
		case KindUK:
			registry.Register(j.CountryCode, salary.CalculateUK)
		case KindGeneric:
			err := registry.RegisterGeneric(j.CountryCode, salary.GenericConfig{
				Brackets:   j.Brackets,
				SocialRate: j.SocialRate,
				Currency:   j.Currency,
			})
			if err != nil {
				return nil, err
			}
		}
	}
	registry.Alias("UK", "GB")
	if err := registry.SetFallback(c.fallback); err != nil {
		return nil, err
	}
	return registry, nil
}
