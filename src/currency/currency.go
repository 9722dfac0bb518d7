// Package currency carries the static metadata used when the importer has to
// create a currency it has never seen before.
package currency

import "strings"

type Info struct {
	Name   string
	Symbol string
}

// Lookup returns display metadata for an ISO-ish currency code. Unknown codes
// get a generated name and the code itself as symbol, so the importer never
// fails on an exotic currency.
func Lookup(code string) Info {
	code = strings.ToUpper(strings.TrimSpace(code))
	if info, ok := infoByCode[code]; ok {
		return info
	}
	return Info{Name: code + " Currency", Symbol: code}
}

var infoByCode = map[string]Info{
	"RUB": {"Russian Ruble", "₽"},
	"USD": {"US Dollar", "$"},
	"EUR": {"Euro", "€"},
	"GBP": {"British Pound", "£"},
	"JPY": {"Japanese Yen", "¥"},
	"CNY": {"Chinese Yuan", "¥"},
	"KRW": {"South Korean Won", "₩"},
	"THB": {"Thai Baht", "฿"},
	"GEL": {"Georgian Lari", "₾"},
	"RSD": {"Serbian Dinar", "дин"},
	"MYR": {"Malaysian Ringgit", "RM"},
	"AED": {"UAE Dirham", "د.إ"},
	"TRY": {"Turkish Lira", "₺"},
	"PLN": {"Polish Zloty", "zł"},
	"CZK": {"Czech Koruna", "Kč"},
	"HUF": {"Hungarian Forint", "Ft"},
	"RON": {"Romanian Leu", "lei"},
	"BGN": {"Bulgarian Lev", "лв"},
	"HRK": {"Croatian Kuna", "kn"},
	"UAH": {"Ukrainian Hryvnia", "₴"},
	"BYN": {"Belarusian Ruble", "Br"},
	"KZT": {"Kazakhstani Tenge", "₸"},
	"UZS": {"Uzbekistani Som", "сўм"},
	"KGS": {"Kyrgyzstani Som", "сом"},
	"TJS": {"Tajikistani Somoni", "SM"},
	"AMD": {"Armenian Dram", "֏"},
	"AZN": {"Azerbaijani Manat", "₼"},
	"NGN": {"Nigerian Naira", "₦"},
	"ZAR": {"South African Rand", "R"},
	"EGP": {"Egyptian Pound", "£"},
	"MAD": {"Moroccan Dirham", "د.م."},
	"TND": {"Tunisian Dinar", "د.ت"},
	"DZD": {"Algerian Dinar", "د.ج"},
	"ETB": {"Ethiopian Birr", "Br"},
	"KES": {"Kenyan Shilling", "KSh"},
	"UGX": {"Ugandan Shilling", "USh"},
	"TZS": {"Tanzanian Shilling", "TSh"},
	"MUR": {"Mauritian Rupee", "₨"},
	"ZMW": {"Zambian Kwacha", "ZK"},
	"BWP": {"Botswana Pula", "P"},
	"NAD": {"Namibian Dollar", "N$"},
	"AOA": {"Angolan Kwanza", "Kz"},
	"MZN": {"Mozambican Metical", "MT"},
	"GHS": {"Ghanaian Cedi", "₵"},
	"XOF": {"West African CFA Franc", "CFA"},
	"XAF": {"Central African CFA Franc", "FCFA"},
	"CDF": {"Congolese Franc", "FC"},
	"XPF": {"CFP Franc", "₣"},
	"FJD": {"Fijian Dollar", "FJ$"},
	"PGK": {"Papua New Guinean Kina", "K"},
	"AUD": {"Australian Dollar", "A$"},
	"NZD": {"New Zealand Dollar", "NZ$"},
	"CAD": {"Canadian Dollar", "C$"},
	"MXN": {"Mexican Peso", "$"},
	"GTQ": {"Guatemalan Quetzal", "Q"},
	"HNL": {"Honduran Lempira", "L"},
	"NIO": {"Nicaraguan Córdoba", "C$"},
	"CRC": {"Costa Rican Colón", "₡"},
	"PAB": {"Panamanian Balboa", "B/."},
	"DOP": {"Dominican Peso", "RD$"},
	"HTG": {"Haitian Gourde", "G"},
	"JMD": {"Jamaican Dollar", "J$"},
	"TTD": {"Trinidad and Tobago Dollar", "TT$"},
	"BBD": {"Barbadian Dollar", "Bds$"},
	"XCD": {"East Caribbean Dollar", "EC$"},
	"AWG": {"Aruban Florin", "ƒ"},
	"ANG": {"Netherlands Antillean Guilder", "ƒ"},
	"SRD": {"Surinamese Dollar", "$"},
	"GYD": {"Guyanese Dollar", "G$"},
	"VES": {"Venezuelan Bolívar", "Bs"},
	"COP": {"Colombian Peso", "$"},
	"BOB": {"Bolivian Boliviano", "Bs"},
	"PEN": {"Peruvian Sol", "S/"},
	"CLP": {"Chilean Peso", "$"},
	"ARS": {"Argentine Peso", "$"},
	"UYU": {"Uruguayan Peso", "$U"},
	"PYG": {"Paraguayan Guarani", "₲"},
	"BRL": {"Brazilian Real", "R$"},
	"GIP": {"Gibraltar Pound", "£"},
	"CHF": {"Swiss Franc", "CHF"},
	"SEK": {"Swedish Krona", "kr"},
	"NOK": {"Norwegian Krone", "kr"},
	"DKK": {"Danish Krone", "kr"},
	"ISK": {"Icelandic Krona", "kr"},
	"ALL": {"Albanian Lek", "L"},
	"MKD": {"Macedonian Denar", "ден"},
	"BAM": {"Bosnia and Herzegovina Convertible Mark", "КМ"},
	"MNT": {"Mongolian Tugrik", "₮"},
	"KHR": {"Cambodian Riel", "៛"},
	"LAK": {"Lao Kip", "₭"},
	"VND": {"Vietnamese Dong", "₫"},
	"MMK": {"Myanmar Kyat", "K"},
	"BDT": {"Bangladeshi Taka", "৳"},
	"LKR": {"Sri Lankan Rupee", "₨"},
	"MVR": {"Maldivian Rufiyaa", "Rf"},
	"PKR": {"Pakistani Rupee", "₨"},
	"AFN": {"Afghan Afghani", "؋"},
	"IRR": {"Iranian Rial", "﷼"},
	"IQD": {"Iraqi Dinar", "د.ع"},
	"JOD": {"Jordanian Dinar", "د.ا"},
	"LBP": {"Lebanese Pound", "ل.ل"},
	"ILS": {"Israeli New Shekel", "₪"},
	"SAR": {"Saudi Riyal", "﷼"},
	"QAR": {"Qatari Riyal", "﷼"},
	"BHD": {"Bahraini Dinar", "د.ب"},
	"KWD": {"Kuwaiti Dinar", "د.ك"},
	"OMR": {"Omani Rial", "﷼"},
	"YER": {"Yemeni Rial", "﷼"},
	"INR": {"Indian Rupee", "₹"},
	"NPR": {"Nepalese Rupee", "₨"},
	"MOP": {"Macanese Pataca", "MOP$"},
	"HKD": {"Hong Kong Dollar", "HK$"},
	"TWD": {"Taiwan New Dollar", "NT$"},
	"PHP": {"Philippine Peso", "₱"},
	"IDR": {"Indonesian Rupiah", "Rp"},
	"SGD": {"Singapore Dollar", "S$"},
	"BND": {"Brunei Dollar", "B$"},

	// Crypto codes show up in ZenMoney exports from users tracking wallets.
	"BTC":  {"Bitcoin", "₿"},
	"ETH":  {"Ethereum", "Ξ"},
	"USDT": {"Tether USD", "₮"},
	"USDC": {"USD Coin", "$"},
	"BNB":  {"Binance Coin", "BNB"},
	"ADA":  {"Cardano", "₳"},
	"SOL":  {"Solana", "◎"},
	"XRP":  {"Ripple", "XRP"},
	"DOT":  {"Polkadot", "●"},
	"DOGE": {"Dogecoin", "Ð"},
	"LTC":  {"Litecoin", "Ł"},
	"BCH":  {"Bitcoin Cash", "BCH"},
	"XLM":  {"Stellar", "XLM"},
	"XMR":  {"Monero", "XMR"},
	"TRX":  {"TRON", "TRX"},
	"ATOM": {"Cosmos", "ATOM"},
	"NEAR": {"NEAR Protocol", "NEAR"},
	"ALGO": {"Algorand", "ALGO"},
	"LINK": {"Chainlink", "LINK"},
	"UNI":  {"Uniswap", "UNI"},
	"AAVE": {"Aave", "AAVE"},
	"SHIB": {"Shiba Inu", "SHIB"},
}
