package metadata

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// Express-style: app.get('/path', ...), router.post("/path", ...)
	expressPattern = regexp.MustCompile(`(?i)\b\w+\.(get|post|put|delete|patch)\s*\(\s*['"` + "`" + `]([^'"` + "`" + `]+)['"` + "`" + `]`)

	// Annotation-style: @Get('/path'), @Post("/path")
	annotationPattern = regexp.MustCompile(`(?i)@(Get|Post|Put|Delete|Patch)\s*\(\s*['"]([^'"]*)['"]\s*\)`)

	// GraphQL: @Query(name?), @Mutation(name?)
	graphqlPattern = regexp.MustCompile(`@(Query|Mutation)\s*\(\s*(?:['"]([^'"]*)['"])?\s*\)`)

	// gRPC service block: service NAME { rpc METHOD ... }
	grpcServicePattern = regexp.MustCompile(`service\s+(\w+)\s*\{`)
	grpcRPCPattern      = regexp.MustCompile(`rpc\s+(\w+)\s*\(`)
)

// ExtractEndpoints scans source text for API endpoint declarations across
// the supported framework families: Express-style, annotation-style
// decorators, GraphQL, and gRPC service blocks.
func ExtractEndpoints(source string) []Endpoint {
	var endpoints []Endpoint
	lines := strings.Split(source, "\n")

	for i, line := range lines {
		lineNo := i + 1

		if m := expressPattern.FindStringSubmatch(line); m != nil {
			endpoints = append(endpoints, Endpoint{
				Method: strings.ToUpper(m[1]), Path: m[2], Line: lineNo, APIType: APITypeREST,
			})
			continue
		}

		if m := annotationPattern.FindStringSubmatch(line); m != nil {
			endpoints = append(endpoints, Endpoint{
				Method: strings.ToUpper(m[1]), Path: m[2], Line: lineNo, APIType: APITypeREST,
			})
			continue
		}

		if m := graphqlPattern.FindStringSubmatch(line); m != nil {
			endpoints = append(endpoints, Endpoint{
				Method: strings.ToUpper(m[1]), Path: m[2], Line: lineNo, APIType: APITypeGraphQL,
			})
			continue
		}
	}

	endpoints = append(endpoints, extractGRPCEndpoints(source, lines)...)

	return endpoints
}

// extractGRPCEndpoints walks `service NAME { rpc METHOD ... }` blocks,
// producing one endpoint per rpc with path "NAME.METHOD".
func extractGRPCEndpoints(source string, lines []string) []Endpoint {
	var endpoints []Endpoint

	serviceMatches := grpcServicePattern.FindAllStringSubmatchIndex(source, -1)
	for _, m := range serviceMatches {
		serviceName := source[m[2]:m[3]]
		blockStart := m[1]

		depth := 1
		pos := blockStart
		blockEnd := len(source)
		for pos < len(source) {
			switch source[pos] {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					blockEnd = pos
				}
			}
			if depth == 0 {
				break
			}
			pos++
		}

		block := source[blockStart:blockEnd]
		baseLine := strings.Count(source[:blockStart], "\n")

		for _, rm := range grpcRPCPattern.FindAllStringSubmatchIndex(block, -1) {
			method := block[rm[2]:rm[3]]
			lineOffset := strings.Count(block[:rm[0]], "\n")
			endpoints = append(endpoints, Endpoint{
				Method:  "RPC",
				Path:    fmt.Sprintf("%s.%s", serviceName, method),
				Line:    baseLine + lineOffset + 1,
				APIType: APITypeGRPC,
			})
		}
	}

	return endpoints
}
