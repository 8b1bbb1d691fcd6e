package orgchart

import "context"

// System builds org chart graphs from the profile table.
type System interface {
	Handler() *Handler
	Graph(ctx context.Context, family string) (*Graph, error)
}
