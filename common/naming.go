package common

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

//go:generate go run github.com/dmarkham/enumer -json -type ProductFamily -trimprefix Family

// ProductFamily defines the kind of products that can be queried
type ProductFamily int

const (
	FamilyUnsupported ProductFamily = iota
	FamilySLC                       // S1x_IW_SLC__1SDV_YYYYMMDDTHHMMSS_YYYYMMDDTHHMMSS_OOOOOO_DDDDDD_CCCC, geometry-filtered
	FamilyGRD                       // S1x_IW_GRDH_1SDV_YYYYMMDDTHHMMSS_YYYYMMDDTHHMMSS_OOOOOO_DDDDDD_CCCC, pattern-filtered
)

// Mapping names of the product families, as used by the query callers
const (
	MappingSLC = "S1_IW_SLC"
	MappingGRD = "S1_GRD"
)

// Mapping returns the name of the mapping of the product family
func (f ProductFamily) Mapping() string {
	switch f {
	case FamilySLC:
		return MappingSLC
	case FamilyGRD:
		return MappingGRD
	}
	return ""
}

// ParseProductFamily returns the product family from a mapping name (S1_IW_SLC, S1_GRD) or a family name (slc, grd)
func ParseProductFamily(input string) (ProductFamily, error) {
	switch strings.ToUpper(input) {
	case MappingSLC:
		return FamilySLC, nil
	case MappingGRD:
		return FamilyGRD, nil
	}
	f, err := ProductFamilyString(input)
	if err != nil || f == FamilyUnsupported {
		return FamilyUnsupported, fmt.Errorf("unsupported product type: %s", input)
	}
	return f, nil
}

var (
	dataDateRegexp = regexp.MustCompile(`S1\w_.+?_(\d{4})(\d{2})(\d{2})T.*`)
	grdTitleRegexp = regexp.MustCompile(`S1\w_.+?GRDH.+?_(\d{4})(\d{2})(\d{2})T.*`)
)

// Date is an acquisition date as encoded in a product title
type Date struct {
	Year  string `json:"year"`
	Month string `json:"month"`
	Day   string `json:"day"`
}

// UnknownDate is returned by DataDateFromTitle when the title does not match
var UnknownDate = Date{Year: "0000", Month: "00", Day: "00"}

// Time parses the date
func (d Date) Time() (time.Time, error) {
	return time.Parse("20060102", d.Year+d.Month+d.Day)
}

// DataDate extracts the acquisition date from the title of a product.
// ok is false if the title does not match the Sentinel-1 naming convention.
func DataDate(title string) (d Date, ok bool) {
	m := dataDateRegexp.FindStringSubmatch(title)
	if m == nil {
		return UnknownDate, false
	}
	return Date{Year: m[1], Month: m[2], Day: m[3]}, true
}

// DataDateFromTitle returns the (YYYY, MM, DD) of the product, or ("0000", "00", "00") if unknown
func DataDateFromTitle(title string) (year, month, day string) {
	d, _ := DataDate(title)
	return d.Year, d.Month, d.Day
}

// IsGRDTitle returns true if the title is the one of a Sentinel-1 GRD high-resolution product
func IsGRDTitle(title string) bool {
	return grdTitleRegexp.MatchString(title)
}

// Product is an item of the catalogue
type Product struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}
