package model

// ComboOption is a selectable catalog entry.
type ComboOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type InstrumentOptions struct {
	Rics        []ComboOption `json:"rics"`
	CajaValores []ComboOption `json:"cajaValores"`
	Tickers     []ComboOption `json:"tickers"`
	Mercados    []ComboOption `json:"mercados"`
	Plazos      []ComboOption `json:"plazos"`
	Monedas     []ComboOption `json:"monedas"`
}

// InstrumentCatalog is the static catalog of known instruments and their
// attribute values.
var InstrumentCatalog = InstrumentOptions{
	Rics: []ComboOption{
		{Value: "ARGD35D1=BA", Label: "ARGD35D1=BA"},
		{Value: "ARTC25P3=ME", Label: "ARTC25P3=ME"},
		{Value: "AAPL.O", Label: "AAPL.O"},
		{Value: "MSFT.O", Label: "MSFT.O"},
		{Value: "GOOGL.O", Label: "GOOGL.O"},
		{Value: "TSLA.O", Label: "TSLA.O"},
		{Value: "AMZN.O", Label: "AMZN.O"},
	},
	CajaValores: []ComboOption{
		{Value: "81088", Label: "81088 - GD35"},
		{Value: "5328", Label: "5328 - TC25P"},
		{Value: "12345", Label: "12345 - AAPL"},
		{Value: "67890", Label: "67890 - MSFT"},
		{Value: "11111", Label: "11111 - GOOGL"},
		{Value: "22222", Label: "22222 - TSLA"},
		{Value: "33333", Label: "33333 - AMZN"},
	},
	Tickers: []ComboOption{
		{Value: "GD35", Label: "GD35"},
		{Value: "TC25P", Label: "TC25P"},
		{Value: "AAPL", Label: "AAPL"},
		{Value: "MSFT", Label: "MSFT"},
		{Value: "GOOGL", Label: "GOOGL"},
		{Value: "TSLA", Label: "TSLA"},
		{Value: "AMZN", Label: "AMZN"},
	},
	Mercados: []ComboOption{
		{Value: "BYM", Label: "BYM - Bolsa y Mercados Argentinos"},
		{Value: "MAE", Label: "MAE - Mercado Abierto Electrónico"},
		{Value: "NASDAQ", Label: "NASDAQ"},
		{Value: "NYSE", Label: "NYSE - New York Stock Exchange"},
		{Value: "LSE", Label: "LSE - London Stock Exchange"},
	},
	Plazos: []ComboOption{
		{Value: "24", Label: "24 horas"},
		{Value: "48", Label: "48 horas"},
		{Value: "72", Label: "72 horas"},
		{Value: "168", Label: "1 semana (168 horas)"},
		{Value: "720", Label: "1 mes (720 horas)"},
	},
	Monedas: []ComboOption{
		{Value: "USD", Label: "USD - Dólar Estadounidense"},
		{Value: "ARS", Label: "ARS - Peso Argentino"},
		{Value: "EUR", Label: "EUR - Euro"},
		{Value: "GBP", Label: "GBP - Libra Esterlina"},
		{Value: "JPY", Label: "JPY - Yen Japonés"},
	},
}

// PresetInstruments are fully described instruments offered as shortcuts.
var PresetInstruments = []Instrument{
	{RIC: "ARGD35D1=BA", CajaValor: "81088", Ticker: "GD35", Mercado: "BYM", Plazo: "24", Moneda: "USD"},
	{RIC: "ARTC25P3=ME", CajaValor: "5328", Ticker: "TC25P", Mercado: "MAE", Plazo: "48", Moneda: "ARS"},
}

// OptionValues extracts the raw values of a catalog list.
func OptionValues(options []ComboOption) []string {
	values := make([]string, 0, len(options))
	for _, o := range options {
		values = append(values, o.Value)
	}
	return values
}
