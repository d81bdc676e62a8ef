// Package di contains dependency injection tokens for the ramp context.
package di

import (
	"github.com/fd1az/ramp-engine/business/ramp/app"
	"github.com/fd1az/ramp-engine/business/ramp/infra/ethereum"
	"github.com/fd1az/ramp-engine/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Monitor    = di.NewToken[*app.Monitor]("ramp.Monitor")
	Sender     = di.NewToken[*app.Sender]("ramp.Sender")
	Reconciler = di.NewToken[*app.Reconciler]("ramp.Reconciler")
)

// Private dependency tokens - internal to ramp module
var (
	ChainClient = di.NewToken[*ethereum.Client]("ramp:chainClient")
	Notifier    = di.NewToken[app.Notifier]("ramp:notifier")
)

// Helper functions for type-safe access
func GetMonitor(c di.ServiceRegistry) *app.Monitor {
	return di.GetToken(c, Monitor)
}

func GetSender(c di.ServiceRegistry) *app.Sender {
	return di.GetToken(c, Sender)
}

func GetReconciler(c di.ServiceRegistry) *app.Reconciler {
	return di.GetToken(c, Reconciler)
}

func GetChainClient(c di.ServiceRegistry) *ethereum.Client {
	return di.GetToken(c, ChainClient)
}

func GetNotifier(c di.ServiceRegistry) app.Notifier {
	return di.GetToken(c, Notifier)
}
