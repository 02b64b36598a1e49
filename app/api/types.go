package api

import (
	"github.com/facetlab/gemfeed/app/aggregator"
)

// Handler carries the dependencies the HTTP endpoints need.
type Handler struct {
	aggregator *aggregator.Aggregator
}
