package clientbase

import (
	"github.com/google/wire"
	cbhttp "github.infra.cloudera.com/CAI/MLFlowClient/pkg/clientbase/http"
)

// WireSet provides the shared Connections together with the http instance underneath.
var WireSet = wire.NewSet(
	cbhttp.NewConfigFromEnv,
	cbhttp.NewInstance,
	NewConfigFromEnv,
	NewConnections,
)
