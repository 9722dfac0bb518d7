package currency

import "testing"

func TestLookup(t *testing.T) {
	tests := []struct {
		code       string
		wantName   string
		wantSymbol string
	}{
		{"RUB", "Russian Ruble", "₽"},
		{"usd", "US Dollar", "$"},
		{" eur ", "Euro", "€"},
		{"BTC", "Bitcoin", "₿"},
		{"XYZ", "XYZ Currency", "XYZ"},
		{"zzq", "ZZQ Currency", "ZZQ"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got := Lookup(tt.code)
			if got.Name != tt.wantName || got.Symbol != tt.wantSymbol {
				t.Errorf("Lookup(%q) = %+v, want {%s %s}", tt.code, got, tt.wantName, tt.wantSymbol)
			}
		})
	}
}
