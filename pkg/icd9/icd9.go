// Package icd9 buckets ICD-9 diagnosis codes into coarse categories.
package icd9

import (
	"math"
	"strconv"
	"strings"
)

const (
	Unknown = "Unknown"
	Other   = "Other"

	Diabetes  = "Diabetes"
	Endocrine = "Endocrine, Metabolic, and Nutritional Diseases"
)

type bucket struct {
	lo, hi int
	label  string
}

// Order matters: Diabetes sits inside the Endocrine range and must match
// first.
var buckets = []bucket{
	{250, 250, Diabetes},
	{1, 139, "Infectious and Parasitic Diseases"},
	{140, 239, "Neoplasms"},
	{240, 279, Endocrine},
	{280, 289, "Diseases of the Blood and Blood-Forming Organs"},
	{290, 319, "Mental Disorders"},
	{320, 389, "Diseases of the Nervous System and Sense Organs"},
	{390, 459, "Diseases of the Circulatory System"},
	{460, 519, "Diseases of the Respiratory System"},
	{520, 579, "Diseases of the Digestive System"},
	{580, 629, "Diseases of the Genitourinary System"},
	{630, 679, "Complications of Pregnancy, Childbirth, and the Puerperium"},
	{680, 709, "Diseases of the Skin and Subcutaneous Tissue"},
	{710, 739, "Diseases of the Musculoskeletal System and Connective Tissue"},
	{740, 759, "Congenital Anomalies"},
	{800, 999, "Injury and Poisoning"},
}

// Placeholders are the values datasets use for an absent code.
var Placeholders = []string{"", "?", "NA", "NaN", "nan", "None"}

// labels returns every category Category can produce.
func labels() []string {
	labels := make([]string, 0, len(buckets)+2)
	for _, b := range buckets {
		labels = append(labels, b.label)
	}
	return append(labels, Other, Unknown)
}

// Category maps a code such as "250.01" or "V57" to its category.
func Category(code string) string {
	code = strings.TrimSpace(code)
	for _, p := range Placeholders {
		if code == p {
			return Unknown
		}
	}

	digits := strings.Replace(code, ".", "", 1)
	if digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
		return Other
	}

	whole, _, _ := strings.Cut(code, ".")
	if whole == "" {
		whole = "0"
	}
	n, err := strconv.Atoi(whole)
	if err != nil {
		return Other
	}

	for _, b := range buckets {
		if b.lo <= n && n <= b.hi {
			return b.label
		}
	}
	return Other
}

// CategoryOf maps a numeric code; NaN is treated as absent.
func CategoryOf(code float64) string {
	if math.IsNaN(code) {
		return Unknown
	}
	return Category(strconv.FormatFloat(code, 'f', -1, 64))
}
