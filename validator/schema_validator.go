package validator

import (
	"regexp"

	"github.com/JRBGitHub/scheadule-desvio/model"

	"github.com/Oudwins/zog"
)

const MaxDescriptionLength = 500

var (
	timePattern          = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)
	ricPattern           = regexp.MustCompile(`^[A-Z0-9]+\.[A-Z]+$`)
	instrumentRICPattern = regexp.MustCompile(`^[A-Z0-9]+[.=][A-Z]+$`)
	cajaValorPattern     = regexp.MustCompile(`^[0-9]+$`)
	tickerPattern        = regexp.MustCompile(`^[A-Z0-9]+$`)
	positiveIntPattern   = regexp.MustCompile(`^[1-9][0-9]*$`)
)

const (
	msgDayRequired       = "El día es requerido"
	msgDayInvalid        = "El día debe ser uno de: Lunes, Martes, Miércoles, Jueves, Viernes, Sábado, Domingo"
	msgTimeRequired      = "La hora es requerida"
	msgTimeInvalid       = "La hora debe tener el formato HH:MM (00:00 a 23:59)"
	msgIterationRequired = "La frecuencia es requerida"
	msgIterationInvalid  = "La frecuencia debe ser una de: 15min, 30min, 1h, 2h, 4h, daily, weekly"
	msgRICRequired       = "El RIC es requerido"
	msgRICInvalid        = "El RIC debe tener el formato CODIGO.MERCADO en mayúsculas (ej. AAPL.O)"
	msgRICMismatch       = "El RIC debe coincidir con instrument.ric"
	msgDescriptionMax    = "La descripción no puede superar los 500 caracteres"
	msgDescriptionType   = "La descripción debe ser un texto"
	msgIsActiveRequired  = "El estado activo es requerido"
	msgIsActiveInvalid   = "El estado activo debe ser true o false"
	msgInstrumentInvalid = "El instrumento debe ser un objeto"
	msgCajaValorInvalid  = "La caja valor debe contener solo dígitos"
	msgTickerInvalid     = "El ticker debe contener solo letras mayúsculas y dígitos"
	msgMercadoInvalid    = "El mercado no es válido"
	msgPlazoInvalid      = "El plazo no es válido"
	msgMonedaInvalid     = "La moneda no es válida"
	msgBodyInvalid       = "El cuerpo de la solicitud debe ser un objeto JSON"
	msgPageInvalid       = "page debe ser un entero positivo"
	msgLimitInvalid      = "limit debe ser un entero entre 1 y 100"
	msgPageTooLarge      = "page está fuera de rango"
)

// ScheduleShape covers the scalar fields shared by create and update payloads.
// ric and description are checked here only for format; presence rules live
// in the validator functions.
var ScheduleShape = zog.Shape{
	"day": zog.String().
		Required(zog.Message(msgDayRequired)).
		OneOf(model.DayValues(), zog.Message(msgDayInvalid)),
	"time": zog.String().
		Required(zog.Message(msgTimeRequired)).
		Match(timePattern, zog.Message(msgTimeInvalid)),
	"iterationTime": zog.String().
		Required(zog.Message(msgIterationRequired)).
		OneOf(model.IterationValues(), zog.Message(msgIterationInvalid)),
	"ric": zog.String().
		Match(ricPattern, zog.Message(msgRICInvalid)),
}

var InstrumentShape = zog.Shape{
	"ric": zog.String().
		Required(zog.Message(msgRICRequired)).
		Match(instrumentRICPattern, zog.Message(msgRICInvalid)),
	"cajaValor": zog.String().
		Match(cajaValorPattern, zog.Message(msgCajaValorInvalid)),
	"ticker": zog.String().
		Match(tickerPattern, zog.Message(msgTickerInvalid)),
	"mercado": zog.String().
		OneOf(model.OptionValues(model.InstrumentCatalog.Mercados), zog.Message(msgMercadoInvalid)),
	"plazo": zog.String().
		OneOf(model.OptionValues(model.InstrumentCatalog.Plazos), zog.Message(msgPlazoInvalid)),
	"moneda": zog.String().
		OneOf(model.OptionValues(model.InstrumentCatalog.Monedas), zog.Message(msgMonedaInvalid)),
}

var ListQueryShape = zog.Shape{
	"page": zog.String().
		Match(positiveIntPattern, zog.Message(msgPageInvalid)),
	"limit": zog.String().
		Match(positiveIntPattern, zog.Message(msgLimitInvalid)),
	"isActive": zog.String().
		OneOf([]string{"true", "false"}, zog.Message(msgIsActiveInvalid)),
	"day": zog.String().
		OneOf(model.DayValues(), zog.Message(msgDayInvalid)),
}

// scheduleFields receives the parsed scalar fields.
type scheduleFields struct {
	Day           string
	Time          string
	IterationTime string
	Ric           string
}

type instrumentFields struct {
	Ric       string
	CajaValor string
	Ticker    string
	Mercado   string
	Plazo     string
	Moneda    string
}

type listQueryFields struct {
	Page     string
	Limit    string
	IsActive string
	Day      string
}
