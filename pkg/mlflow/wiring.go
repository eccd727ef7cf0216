package mlflow

import (
	"github.com/google/wire"
	"github.infra.cloudera.com/CAI/MLFlowClient/pkg/clientbase"
	ltime "github.infra.cloudera.com/CAI/MLFlowClient/pkg/time"
)

// ClientFactory builds independent clients that share one set of connections.
type ClientFactory func() *Client

func NewClientFactory(cfg *Config, connections *clientbase.Connections, identity Identity, watch ltime.Watch) ClientFactory {
	return func() *Client {
		return NewClient(cfg, connections, identity, watch)
	}
}

func NewWatch() ltime.Watch {
	return ltime.NewWallWatch()
}

var WireSet = wire.NewSet(NewConfigFromEnv, NewOSIdentity, NewWatch, NewClientFactory)
