package detector

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the detector Graft node.
const NodeID graft.ID = "adapter.detector"

func init() {
	graft.Register(graft.Node[Environment]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (Environment, error) {
			return Detect(os.Stdout), nil
		},
	})
}
