// Copyright 2025 OntoView Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package resolve implements the Linked Data dereferencing endpoint:
// look an IRI up in the hub's global index, then content-negotiate the
// response shape from the Accept header. See spec §4.9.
package resolve

import (
	"fmt"

	"github.com/munnerz/goautoneg"

	"github.com/ontohub/ontoview/internal/errkind"
	"github.com/ontohub/ontoview/pkg/hub"
)

// Kind discriminates the three response shapes resolve() can produce.
type Kind int

const (
	// KindJSON is a 200 with a JSON body.
	KindJSON Kind = iota
	// KindRedirectExport is a 303 to the TTL export route.
	KindRedirectExport
	// KindRedirectDocs is a 303 to the docs route.
	KindRedirectDocs
	// KindFlash is a redirect to the set-browser landing with a flash
	// message (missing/unknown iri); not an HTTP error status.
	KindFlash
)

// JSONBody is the payload returned for KindJSON.
type JSONBody struct {
	IRI             string `json:"iri"`
	SetID           string `json:"set_id"`
	Version         string `json:"version"`
	EntityType      string `json:"entity_type"`
	DocumentationURL string `json:"documentation_url"`
	TTLExportURL    string `json:"ttl_export_url"`
}

// Response is the resolver's output; exactly one of Body/Location/Flash
// is populated depending on Kind.
type Response struct {
	Kind     Kind
	Body     *JSONBody
	Location string
	Flash    string
}

// Resolve looks iri up via h.ResolveIRI and negotiates the response
// shape against accept.
func Resolve(h *hub.Service, iri, accept string) Response {
	if iri == "" {
		return Response{Kind: KindFlash, Flash: "missing iri"}
	}

	result, err := h.ResolveIRI(iri)
	if err != nil {
		if errkind.OfKind(err, errkind.IriNotFound) {
			return Response{Kind: KindFlash, Flash: "not found"}
		}
		return Response{Kind: KindFlash, Flash: "internal error"}
	}

	docsURL := fmt.Sprintf("/sets/%s/%s/docs", result.SetID, result.Version)
	exportURL := fmt.Sprintf("/sets/%s/%s/export.ttl", result.SetID, result.Version)

	switch negotiate(accept) {
	case "application/json":
		return Response{
			Kind: KindJSON,
			Body: &JSONBody{
				IRI:              result.IRI,
				SetID:            result.SetID,
				Version:          result.Version,
				EntityType:       string(result.EntityType),
				DocumentationURL: docsURL,
				TTLExportURL:     exportURL,
			},
		}
	case "text/turtle", "application/rdf+xml":
		return Response{Kind: KindRedirectExport, Location: exportURL}
	default:
		return Response{Kind: KindRedirectDocs, Location: docsURL}
	}
}

// supportedTypes are the only media types resolve() ever serves
// directly; everything else (including a bare "*/*" or "text/html")
// redirects to the docs route per spec §4.9 item 4.
var supportedTypes = []string{"application/json", "text/turtle", "application/rdf+xml"}

// negotiate picks the best acceptable media type among the three the
// resolver understands, falling back to "" (docs redirect) for
// text/html, a missing header, */*, or anything else.
//
// goautoneg.Negotiate happily resolves "*/*" to the first alternative
// in the list, which would make every wildcard Accept header (curl's
// default, and the "*/*;q=0.8" tail every browser sends) hit the JSON
// branch. Only trust a match that names one of the supported types
// explicitly, with no wildcard in either the type or subtype.
func negotiate(accept string) string {
	if accept == "" {
		return ""
	}

	var best string
	var bestQ float64
	for _, alt := range goautoneg.ParseAccept(accept) {
		if alt.Type == "*" || alt.SubType == "*" || alt.Q <= 0 {
			continue
		}
		mediaType := alt.Type + "/" + alt.SubType
		if !isSupported(mediaType) {
			continue
		}
		if best == "" || alt.Q > bestQ {
			best, bestQ = mediaType, alt.Q
		}
	}
	return best
}

func isSupported(mediaType string) bool {
	for _, t := range supportedTypes {
		if t == mediaType {
			return true
		}
	}
	return false
}
