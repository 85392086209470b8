package service

import (
	"github.com/JRBGitHub/scheadule-desvio/cache"
	"github.com/JRBGitHub/scheadule-desvio/customerrors"
	"github.com/JRBGitHub/scheadule-desvio/model"

	goCache "github.com/patrickmn/go-cache"
)

const (
	optionsKey    = "options"
	presetsKey    = "presets"
	instrumentKey = "ric_"
)

type InstrumentService interface {
	ReloadCatalog()
	GetOptions() model.InstrumentOptions
	GetPresets() []model.Instrument
	Lookup(ric string) (model.Instrument, error)
}

type InstrumentServiceImpl struct{}

func NewInstrumentService() InstrumentService {
	s := &InstrumentServiceImpl{}
	s.ReloadCatalog()
	return s
}

// ReloadCatalog refills the instrument cache from the static catalog.
func (s *InstrumentServiceImpl) ReloadCatalog() {
	cache.InstrumentCache.Flush()

	cache.InstrumentCache.Set(optionsKey, model.InstrumentCatalog, goCache.NoExpiration)
	cache.InstrumentCache.Set(presetsKey, model.PresetInstruments, goCache.NoExpiration)

	for _, option := range model.InstrumentCatalog.Rics {
		cache.InstrumentCache.Set(instrumentKey+option.Value, model.FlatToInstrument(option.Value), goCache.NoExpiration)
	}
	// presets carry the full record and win over the bare ric
	for _, preset := range model.PresetInstruments {
		cache.InstrumentCache.Set(instrumentKey+preset.RIC, preset, goCache.NoExpiration)
	}
}

func (s *InstrumentServiceImpl) GetOptions() model.InstrumentOptions {
	if val, found := cache.InstrumentCache.Get(optionsKey); found {
		return val.(model.InstrumentOptions)
	}
	s.ReloadCatalog()
	return model.InstrumentCatalog
}

func (s *InstrumentServiceImpl) GetPresets() []model.Instrument {
	val, found := cache.InstrumentCache.Get(presetsKey)
	if !found {
		s.ReloadCatalog()
		val = model.PresetInstruments
	}
	presets := val.([]model.Instrument)
	out := make([]model.Instrument, len(presets))
	copy(out, presets)
	return out
}

func (s *InstrumentServiceImpl) Lookup(ric string) (model.Instrument, error) {
	if val, found := cache.InstrumentCache.Get(instrumentKey + ric); found {
		return val.(model.Instrument), nil
	}
	return model.Instrument{}, customerrors.ErrInstrumentNotFound
}
