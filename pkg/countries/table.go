package countries

// codes is the fixed list of countries queried for listings, in processing order.
var codes = []string{
	"AD", "AE", "AF", "AL", "AM", "AO", "AR", "AT", "AU", "AW", "AZ",
	"BA", "BB", "BD", "BE", "BF", "BG", "BH", "BI", "BJ", "BL", "BN", "BO", "BQ", "BR", "BS", "BT", "BW", "BY", "BZ",
	"CA", "CD", "CF", "CG", "CH", "CI", "CL", "CM", "CN", "CO", "CR", "CU", "CV", "CW", "CY", "CZ",
	"DE", "DJ", "DK", "DM", "DO", "DZ",
	"EC", "EE", "EG", "ER", "ES", "ET",
	"FI", "FJ", "FO", "FR",
	"GA", "GB", "GD", "GE", "GF", "GH", "GL", "GM", "GN", "GP", "GQ", "GR", "GT", "GW", "GY",
	"HK", "HN", "HR", "HT", "HU",
	"ID", "IE", "IL", "IN", "IQ", "IR", "IS", "IT",
	"JM", "JO", "JP",
	"KE", "KG", "KH", "KM", "KN", "KR", "KW", "KZ",
	"LA", "LB", "LC", "LI", "LK", "LR", "LS", "LT", "LU", "LV", "LY",
	"MA", "MC", "MD", "ME", "MF", "MG", "MK", "ML", "MM", "MN", "MO", "MQ", "MR", "MT", "MU", "MV", "MW", "MX", "MY", "MZ",
	"NA", "NC", "NE", "NG", "NI", "NL", "NO", "NP", "NZ",
	"OM",
	"PA", "PE", "PF", "PG", "PH", "PK", "PL", "PR", "PS", "PT", "PY",
	"QA",
	"RE", "RO", "RS", "RU", "RW",
	"SA", "SB", "SC", "SD", "SE", "SG", "SI", "SK", "SL", "SM", "SN", "SO", "SR", "SS", "ST", "SV", "SX", "SY", "SZ",
	"TD", "TG", "TH", "TJ", "TL", "TM", "TN", "TO", "TR", "TT", "TW", "TZ",
	"UA", "UG", "US", "UY", "UZ",
	"VA", "VC", "VE", "VI", "VN", "VU",
	"WS",
	"XK",
	"YE", "YT",
	"ZA", "ZM", "ZW",
}

// names maps country-name variants to ISO2 codes. Order matters: the
// substring fallback in CodeForName returns the first containing entry.
var names = []Entry{
	{"Afghanistan", "AF"},
	{"Albania", "AL"},
	{"Algeria", "DZ"},
	{"American Samoa", "AS"},
	{"Andorra", "AD"},
	{"Angola", "AO"},
	{"Anguilla", "AI"},
	{"Antarctica", "AQ"},
	{"Antigua and Barbuda", "AG"},
	{"Argentina", "AR"},
	{"Armenia", "AM"},
	{"Aruba", "AW"},
	{"Australia", "AU"},
	{"Austria", "AT"},
	{"Azerbaijan", "AZ"},
	{"Bahamas", "BS"},
	{"Bahrain", "BH"},
	{"Bangladesh", "BD"},
	{"Barbados", "BB"},
	{"Belarus", "BY"},
	{"Belgium", "BE"},
	{"Belize", "BZ"},
	{"Benin", "BJ"},
	{"Bermuda", "BM"},
	{"Bhutan", "BT"},
	{"Bolivia", "BO"},
	{"Bosnia and Herzegovina", "BA"},
	{"Botswana", "BW"},
	{"Brazil", "BR"},
	{"Brunei", "BN"},
	{"Brunei Darussalam", "BN"},
	{"Bulgaria", "BG"},
	{"Burkina Faso", "BF"},
	{"Burundi", "BI"},
	{"Cabo Verde", "CV"},
	{"Cape Verde", "CV"},
	{"Cambodia", "KH"},
	{"Cameroon", "CM"},
	{"Canada", "CA"},
	{"Cayman Islands", "KY"},
	{"Central African Republic", "CF"},
	{"Chad", "TD"},
	{"Chile", "CL"},
	{"China", "CN"},
	{"Colombia", "CO"},
	{"Comoros", "KM"},
	{"Congo", "CG"},
	{"Democratic Republic of the Congo", "CD"},
	{"Cook Islands", "CK"},
	{"Costa Rica", "CR"},
	{"Croatia", "HR"},
	{"Cuba", "CU"},
	{"Curaçao", "CW"},
	{"Cyprus", "CY"},
	{"Czechia", "CZ"},
	{"Czech Republic", "CZ"},
	{"Denmark", "DK"},
	{"Djibouti", "DJ"},
	{"Dominica", "DM"},
	{"Dominican Republic", "DO"},
	{"Ecuador", "EC"},
	{"Egypt", "EG"},
	{"El Salvador", "SV"},
	{"Equatorial Guinea", "GQ"},
	{"Eritrea", "ER"},
	{"Estonia", "EE"},
	{"Eswatini", "SZ"},
	{"Swaziland", "SZ"},
	{"Ethiopia", "ET"},
	{"Falkland Islands", "FK"},
	{"Faroe Islands", "FO"},
	{"Fiji", "FJ"},
	{"Finland", "FI"},
	{"France", "FR"},
	{"French Guiana", "GF"},
	{"French Polynesia", "PF"},
	{"Gabon", "GA"},
	{"Gambia", "GM"},
	{"Georgia", "GE"},
	{"Germany", "DE"},
	{"Ghana", "GH"},
	{"Gibraltar", "GI"},
	{"Greece", "GR"},
	{"Greenland", "GL"},
	{"Grenada", "GD"},
	{"Guadeloupe", "GP"},
	{"Guam", "GU"},
	{"Guatemala", "GT"},
	{"Guinea", "GN"},
	{"Guinea-Bissau", "GW"},
	{"Guyana", "GY"},
	{"Haiti", "HT"},
	{"Honduras", "HN"},
	{"Hong Kong", "HK"},
	{"Hungary", "HU"},
	{"Iceland", "IS"},
	{"India", "IN"},
	{"Indonesia", "ID"},
	{"Iran", "IR"},
	{"Iraq", "IQ"},
	{"Ireland", "IE"},
	{"Israel", "IL"},
	{"Italy", "IT"},
	{"Ivory Coast", "CI"},
	{"Côte d'Ivoire", "CI"},
	{"Jamaica", "JM"},
	{"Japan", "JP"},
	{"Jordan", "JO"},
	{"Kazakhstan", "KZ"},
	{"Kenya", "KE"},
	{"Kiribati", "KI"},
	{"Kuwait", "KW"},
	{"Kyrgyzstan", "KG"},
	{"Laos", "LA"},
	{"Latvia", "LV"},
	{"Lebanon", "LB"},
	{"Lesotho", "LS"},
	{"Liberia", "LR"},
	{"Libya", "LY"},
	{"Liechtenstein", "LI"},
	{"Lithuania", "LT"},
	{"Luxembourg", "LU"},
	{"Macao", "MO"},
	{"Macau", "MO"},
	{"Madagascar", "MG"},
	{"Malawi", "MW"},
	{"Malaysia", "MY"},
	{"Maldives", "MV"},
	{"Mali", "ML"},
	{"Malta", "MT"},
	{"Marshall Islands", "MH"},
	{"Martinique", "MQ"},
	{"Mauritania", "MR"},
	{"Mauritius", "MU"},
	{"Mayotte", "YT"},
	{"Mexico", "MX"},
	{"Micronesia", "FM"},
	{"Moldova", "MD"},
	{"Monaco", "MC"},
	{"Mongolia", "MN"},
	{"Montenegro", "ME"},
	{"Montserrat", "MS"},
	{"Morocco", "MA"},
	{"Mozambique", "MZ"},
	{"Myanmar", "MM"},
	{"Namibia", "NA"},
	{"Nauru", "NR"},
	{"Nepal", "NP"},
	{"Netherlands", "NL"},
	{"New Caledonia", "NC"},
	{"New Zealand", "NZ"},
	{"Nicaragua", "NI"},
	{"Niger", "NE"},
	{"Nigeria", "NG"},
	{"Niue", "NU"},
	{"Norfolk Island", "NF"},
	{"North Korea", "KP"},
	{"North Macedonia", "MK"},
	{"Northern Mariana Islands", "MP"},
	{"Norway", "NO"},
	{"Oman", "OM"},
	{"Pakistan", "PK"},
	{"Palau", "PW"},
	{"Palestine", "PS"},
	{"Panama", "PA"},
	{"Papua New Guinea", "PG"},
	{"Paraguay", "PY"},
	{"Peru", "PE"},
	{"Philippines", "PH"},
	{"Poland", "PL"},
	{"Portugal", "PT"},
	{"Puerto Rico", "PR"},
	{"Qatar", "QA"},
	{"Romania", "RO"},
	{"Russia", "RU"},
	{"Russian Federation", "RU"},
	{"Rwanda", "RW"},
	{"Reunion", "RE"},
	{"Saint Barthélemy", "BL"},
	{"Saint Helena", "SH"},
	{"Saint Kitts and Nevis", "KN"},
	{"Saint Lucia", "LC"},
	{"Saint Martin", "MF"},
	{"Saint Pierre and Miquelon", "PM"},
	{"Saint Vincent and the Grenadines", "VC"},
	{"Samoa", "WS"},
	{"San Marino", "SM"},
	{"Sao Tome and Principe", "ST"},
	{"Saudi Arabia", "SA"},
	{"Senegal", "SN"},
	{"Serbia", "RS"},
	{"Seychelles", "SC"},
	{"Sierra Leone", "SL"},
	{"Singapore", "SG"},
	{"Sint Maarten", "SX"},
	{"Slovakia", "SK"},
	{"Slovenia", "SI"},
	{"Solomon Islands", "SB"},
	{"Somalia", "SO"},
	{"South Africa", "ZA"},
	{"South Korea", "KR"},
	{"South Sudan", "SS"},
	{"Spain", "ES"},
	{"Sri Lanka", "LK"},
	{"Sudan", "SD"},
	{"Suriname", "SR"},
	{"Sweden", "SE"},
	{"Switzerland", "CH"},
	{"Syria", "SY"},
	{"Taiwan", "TW"},
	{"Tajikistan", "TJ"},
	{"Tanzania", "TZ"},
	{"Thailand", "TH"},
	{"Timor-Leste", "TL"},
	{"Togo", "TG"},
	{"Tokelau", "TK"},
	{"Tonga", "TO"},
	{"Trinidad and Tobago", "TT"},
	{"Tunisia", "TN"},
	{"Turkey", "TR"},
	{"Türkiye", "TR"},
	{"Turkmenistan", "TM"},
	{"Turks and Caicos Islands", "TC"},
	{"Tuvalu", "TV"},
	{"Uganda", "UG"},
	{"Ukraine", "UA"},
	{"United Arab Emirates", "AE"},
	{"United Kingdom", "GB"},
	{"United States", "US"},
	{"Uruguay", "UY"},
	{"Uzbekistan", "UZ"},
	{"Vanuatu", "VU"},
	{"Venezuela", "VE"},
	{"Vietnam", "VN"},
	{"Viet Nam", "VN"},
	{"Wallis and Futuna", "WF"},
	{"Western Sahara", "EH"},
	{"Yemen", "YE"},
	{"Zambia", "ZM"},
	{"Zimbabwe", "ZW"},
}
