package retrieval

import (
	"encoding/json"

	"github.com/aman-cerp/semindex/internal/metadata"
	"github.com/aman-cerp/semindex/internal/store"
)

// metadataAPIEndpointsKey is the Chunk.Metadata key the indexer stores a
// JSON-encoded []metadata.Endpoint list under when API endpoint detection
// is enabled.
const metadataAPIEndpointsKey = "api_endpoints"

// EnrichAPI attaches endpoint descriptors to every chunk carrying
// api_endpoints metadata, and computes cross-service calls by pairing each
// chunk's caller service against services whose own endpoints match the
// call's method+path (§4.15). When scope.ServiceIDs is non-empty,
// enrichment is restricted to those services.
func EnrichAPI(chunks []store.Chunk, services []store.Service, scope Scope) APIContext {
	allowedServices := make(map[string]bool, len(scope.ServiceIDs))
	for _, id := range scope.ServiceIDs {
		allowedServices[id] = true
	}
	restrictToScope := len(allowedServices) > 0

	var ctx APIContext
	endpointsByChunk := make(map[string][]metadata.Endpoint)
	endpointsByService := make(map[string][]metadata.Endpoint)

	for _, c := range chunks {
		raw, ok := c.Metadata[metadataAPIEndpointsKey]
		if !ok || raw == "" {
			continue
		}
		var endpoints []metadata.Endpoint
		if err := json.Unmarshal([]byte(raw), &endpoints); err != nil {
			ctx.Warnings = append(ctx.Warnings, "failed to decode api_endpoints metadata for chunk "+c.ChunkID)
			continue
		}
		endpointsByChunk[c.ChunkID] = endpoints
		if c.ServiceID != "" {
			endpointsByService[c.ServiceID] = append(endpointsByService[c.ServiceID], endpoints...)
		}

		if restrictToScope && c.ServiceID != "" && !allowedServices[c.ServiceID] {
			continue
		}
		for _, ep := range endpoints {
			ctx.Endpoints = append(ctx.Endpoints, EndpointRef{
				ChunkID: c.ChunkID,
				Method:  ep.Method,
				Path:    ep.Path,
				Line:    ep.Line,
				APIType: string(ep.APIType),
			})
		}
	}

	ctx.CrossServiceCalls = computeCrossServiceCalls(chunks, endpointsByChunk, endpointsByService, services, allowedServices, restrictToScope)
	return ctx
}

func computeCrossServiceCalls(chunks []store.Chunk, endpointsByChunk, endpointsByService map[string][]metadata.Endpoint, services []store.Service, allowedServices map[string]bool, restrictToScope bool) []CrossServiceCall {
	var calls []CrossServiceCall
	for _, c := range chunks {
		if c.ServiceID == "" {
			continue
		}
		if restrictToScope && !allowedServices[c.ServiceID] {
			continue
		}
		endpoints, ok := endpointsByChunk[c.ChunkID]
		if !ok {
			continue
		}
		for _, ep := range endpoints {
			for _, svc := range services {
				if svc.ServiceID == c.ServiceID {
					continue
				}
				if restrictToScope && !allowedServices[svc.ServiceID] {
					continue
				}
				if serviceExposesEndpoint(svc.ServiceID, endpointsByService, ep) {
					calls = append(calls, CrossServiceCall{
						CallerServiceID: c.ServiceID,
						CalleeServiceID: svc.ServiceID,
						Method:          ep.Method,
						Path:            ep.Path,
					})
				}
			}
		}
	}
	return calls
}

func serviceExposesEndpoint(serviceID string, endpointsByService map[string][]metadata.Endpoint, ep metadata.Endpoint) bool {
	for _, candidate := range endpointsByService[serviceID] {
		if candidate.Method == ep.Method && candidate.Path == ep.Path {
			return true
		}
	}
	return false
}
