package testutil

import (
	"context"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/rafidain/schoollink/core"
	"github.com/rafidain/schoollink/core/school"
	"github.com/rafidain/schoollink/core/user"
	"github.com/rafidain/schoollink/storage/database/inmem"
)

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
func (NopLogger) Fatal(string, ...interface{}) {}

// Config returns a quiet TEST config: no simulated latency, no request logs, no debug error bodies.
func Config(t *testing.T) *core.Config {
	conf, err := core.LoadConfig("TEST", t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	conf.Debug = false
	conf.Server.DisableReqLogs = true
	conf.Storage.Engine = core.EngineMemory
	conf.Latency = core.LatencyConfig{}
	conf.Chat.ResyncInterval = 0
	return conf
}

// Validator returns a validator with every custom tag registered.
func Validator() (*validator.Validate, ut.Translator) {
	enLocale := en.New()
	translator, _ := ut.New(enLocale, enLocale).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	school.InitValidators(validate, translator)
	return validate, translator
}

// NewSchool returns a school service over a fresh in-memory store, seeded with the default dataset.
func NewSchool(opts school.Options) (*school.Service, *inmem.Store) {
	store := inmem.NewStore()
	if opts.Logger == nil {
		opts.Logger = NopLogger{}
	}
	return school.NewService(context.Background(), store, opts), store
}
