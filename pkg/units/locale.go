package units

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

// imperialRegions use miles for road distances. GB is included on purpose:
// distances there are signposted in miles even though the locale reports
// metric.
var imperialRegions = map[string]bool{
	"US": true,
	"LR": true,
	"MM": true,
	"GB": true,
}

// PrefersMetric reports whether the given locale tag should display metric
// distances. Both POSIX ("en_US.UTF-8") and BCP 47 ("en-GB") forms are
// accepted. Unknown or empty tags default to metric.
func PrefersMetric(localeTag string) bool {
	tag := normalizeLocale(localeTag)
	if tag == "" {
		return true
	}

	parsed, err := language.Parse(tag)
	if err != nil {
		return true
	}

	region, confidence := parsed.Region()
	if confidence == language.No {
		return true
	}
	return !imperialRegions[region.String()]
}

// SystemPrefersMetric queries the process environment the same way the C
// library resolves LC_MEASUREMENT.
func SystemPrefersMetric() bool {
	for _, key := range []string{"LC_ALL", "LC_MEASUREMENT", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return PrefersMetric(v)
		}
	}
	return true
}

// normalizeLocale strips the codeset and modifier from a POSIX locale and
// converts it to BCP 47 separators.
func normalizeLocale(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	if s == "C" || s == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(s, "_", "-")
}
