// Package logger builds slog loggers with functional options, helper attribute
// constructors and injection of values stored in context.Context.
//
// New picks a text or JSON handler, attaches static attributes and wraps the
// result in LogHandlerDecorator, which runs every registered ContextExtractor
// when a record is handled. The identity package ships an extractor that adds
// the identity id of the authorization context carried by the request.
//
// # Usage
//
//	var cfg logger.Config
//	config.MustLoad(&cfg)
//
//	log := logger.New(
//		logger.WithConfig(cfg),
//		logger.WithContextExtractors(identity.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "paper created",
//		logger.IdentityID(id),
//		logger.PaperType("employment_contract"),
//	)
//
// Error and Errors return an empty attribute for nil errors, so
//
//	log.Info("done", logger.Error(err))
//
// needs no nil check.
package logger
