package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/rafidain/schoollink/apps/api/echo"
	"github.com/rafidain/schoollink/core"
	"github.com/rafidain/schoollink/core/chat"
	"github.com/rafidain/schoollink/core/school"
	emailsvc "github.com/rafidain/schoollink/services/email"
	logsvc "github.com/rafidain/schoollink/services/logger"
	"github.com/rafidain/schoollink/storage/database"
)

type (
	DBLoggerParam struct {
		dig.In
		Logger core.Logger `name:"dbLogger"`
	}

	// StoreCloser releases the record store's connections.
	StoreCloser func() error

	ServerParams struct {
		dig.In
		Conf       *core.Config
		Logger     core.Logger
		School     *school.Service
		Messenger  *chat.Messenger
		Auth       *echoapi.Authenticator
		Validate   *validator.Validate
		Translator ut.Translator
	}
)

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newStore(conf *core.Config, loggerParam DBLoggerParam) (core.RecordStore, StoreCloser) {
	store, closeFn, err := database.NewRecordStore(context.Background(), conf.Storage)
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up %s storage: %v", conf.Storage.Engine, err), err)
	}
	loggerParam.Logger.Info(fmt.Sprintf("using %s storage", conf.Storage.Engine))
	return store, StoreCloser(closeFn)
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func newSchoolService(conf *core.Config, store core.RecordStore, hub *chat.Hub, mailer core.EmailService, logger core.Logger) *school.Service {
	return school.NewService(context.Background(), store, school.Options{
		Latency:   conf.Latency,
		Publisher: hub,
		Mailer:    mailer,
		Logger:    logger,
	})
}

func newMessenger(conf *core.Config, svc *school.Service, hub *chat.Hub, logger core.Logger) *chat.Messenger {
	return chat.NewMessenger(svc, hub, conf.Chat, logger)
}

func newServer(p ServerParams) *echoapi.Server {
	return echoapi.NewServer(&echoapi.Deps{
		Conf:       p.Conf,
		Logger:     p.Logger,
		School:     p.School,
		Messenger:  p.Messenger,
		Auth:       p.Auth,
		Validate:   p.Validate,
		Translator: p.Translator,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStore))
	must(c.Provide(newEmailService))
	must(c.Provide(validator.New))
	must(c.Provide(newTranslator))
	must(c.Provide(chat.NewHub))
	must(c.Provide(newSchoolService))
	must(c.Provide(newMessenger))
	must(c.Provide(echoapi.NewAuthenticator))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
