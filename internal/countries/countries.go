// Package countries maps ISO 3166-1 alpha-2 country codes to display
// names and continents. The table covers the destinations the app has
// shipped localized country cards for; unknown codes fall back to the
// code itself.
package countries

import "strings"

const (
	ContinentAsia         = "Asia"
	ContinentEurope       = "Europe"
	ContinentNorthAmerica = "North America"
	ContinentSouthAmerica = "South America"
	ContinentOceania      = "Oceania"
	ContinentMiddleEast   = "Middle East"
	ContinentAfrica       = "Africa"
)

type country struct {
	name      string
	continent string
}

var table = map[string]country{
	"JP": {"Japan", ContinentAsia},
	"CN": {"China", ContinentAsia},
	"KR": {"South Korea", ContinentAsia},
	"TW": {"Taiwan", ContinentAsia},
	"HK": {"Hong Kong", ContinentAsia},
	"TH": {"Thailand", ContinentAsia},
	"SG": {"Singapore", ContinentAsia},
	"MY": {"Malaysia", ContinentAsia},
	"ID": {"Indonesia", ContinentAsia},
	"PH": {"Philippines", ContinentAsia},
	"VN": {"Vietnam", ContinentAsia},
	"IN": {"India", ContinentAsia},

	"GB": {"United Kingdom", ContinentEurope},
	"FR": {"France", ContinentEurope},
	"DE": {"Germany", ContinentEurope},
	"IT": {"Italy", ContinentEurope},
	"ES": {"Spain", ContinentEurope},
	"CH": {"Switzerland", ContinentEurope},
	"AT": {"Austria", ContinentEurope},
	"NL": {"Netherlands", ContinentEurope},
	"BE": {"Belgium", ContinentEurope},
	"SE": {"Sweden", ContinentEurope},
	"NO": {"Norway", ContinentEurope},
	"DK": {"Denmark", ContinentEurope},
	"FI": {"Finland", ContinentEurope},
	"PL": {"Poland", ContinentEurope},
	"CZ": {"Czechia", ContinentEurope},
	"HU": {"Hungary", ContinentEurope},
	"GR": {"Greece", ContinentEurope},
	"PT": {"Portugal", ContinentEurope},
	"IE": {"Ireland", ContinentEurope},
	"IS": {"Iceland", ContinentEurope},
	"HR": {"Croatia", ContinentEurope},
	"SI": {"Slovenia", ContinentEurope},
	"EE": {"Estonia", ContinentEurope},
	"LV": {"Latvia", ContinentEurope},
	"LT": {"Lithuania", ContinentEurope},
	"RO": {"Romania", ContinentEurope},
	"BG": {"Bulgaria", ContinentEurope},
	"UA": {"Ukraine", ContinentEurope},
	"RU": {"Russia", ContinentEurope},

	"US": {"United States", ContinentNorthAmerica},
	"CA": {"Canada", ContinentNorthAmerica},
	"MX": {"Mexico", ContinentNorthAmerica},

	"BR": {"Brazil", ContinentSouthAmerica},
	"AR": {"Argentina", ContinentSouthAmerica},
	"CL": {"Chile", ContinentSouthAmerica},
	"PE": {"Peru", ContinentSouthAmerica},

	"AU": {"Australia", ContinentOceania},
	"NZ": {"New Zealand", ContinentOceania},

	"AE": {"United Arab Emirates", ContinentMiddleEast},
	"SA": {"Saudi Arabia", ContinentMiddleEast},
	"TR": {"Turkey", ContinentMiddleEast},
	"IL": {"Israel", ContinentMiddleEast},

	"EG": {"Egypt", ContinentAfrica},
	"ZA": {"South Africa", ContinentAfrica},
	"KE": {"Kenya", ContinentAfrica},
	"NG": {"Nigeria", ContinentAfrica},
}

// Name returns the display name for a country code, or the code itself
// when the code is unknown.
func Name(code string) string {
	c, ok := table[strings.ToUpper(code)]
	if !ok {
		return code
	}
	return c.name
}

// Continent returns the continent for a country code, or the empty
// string when the code is unknown.
func Continent(code string) string {
	c, ok := table[strings.ToUpper(code)]
	if !ok {
		return ""
	}
	return c.continent
}
