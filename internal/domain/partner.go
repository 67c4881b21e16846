package domain

import "strings"

// PartnerKind selects which registry a partner belongs to.
type PartnerKind string

const (
	PartnerCustomer PartnerKind = "customer"
	PartnerVendor   PartnerKind = "vendor"
)

func (k PartnerKind) IsValid() bool {
	return k == PartnerCustomer || k == PartnerVendor
}

// IDPrefix returns the id prefix used for partners of this kind.
func (k PartnerKind) IDPrefix() string {
	if k == PartnerVendor {
		return "VEN-"
	}
	return "CUS-"
}

// Partner is a customer or vendor counterparty. Partners are created and
// deleted but never edited in place.
type Partner struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	TaxCode       string `json:"taxCode"`
	Address       string `json:"address"`
	ContactPerson string `json:"contactPerson"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
}

// Matches reports whether query matches the name case-insensitively or is a
// substring of the tax code.
func (p Partner) Matches(query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) ||
		strings.Contains(p.TaxCode, query)
}

// FindPartner returns the partner with the given id.
func FindPartner(partners []Partner, id string) (Partner, bool) {
	for _, p := range partners {
		if p.ID == id {
			return p, true
		}
	}
	return Partner{}, false
}
