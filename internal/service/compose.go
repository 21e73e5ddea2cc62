package service

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// composeFile is the subset of docker-compose.yml fields needed for
// per-service enrichment.
type composeFile struct {
	Services map[string]composeService `yaml:"services"`
}

type composeService struct {
	Ports       []string  `yaml:"ports"`
	Environment yaml.Node `yaml:"environment"`
	Volumes     []string  `yaml:"volumes"`
	DependsOn   yaml.Node `yaml:"depends_on"`
}

// LoadCompose reads and parses a docker-compose file at repoRoot, if one of
// the conventional names exists. Returns nil, nil if none is found.
func LoadCompose(repoRoot string) (map[string]ComposeInfo, error) {
	var data []byte
	for _, name := range []string{"docker-compose.yml", "docker-compose.yaml", "compose.yml", "compose.yaml"} {
		b, err := os.ReadFile(filepath.Join(repoRoot, name))
		if err == nil {
			data = b
			break
		}
	}
	if data == nil {
		return nil, nil
	}

	var cf composeFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	out := make(map[string]ComposeInfo, len(cf.Services))
	for name, svc := range cf.Services {
		out[name] = ComposeInfo{
			Ports:       parsePorts(svc.Ports),
			Environment: parseEnvironment(svc.Environment),
			Volumes:     svc.Volumes,
			DependsOn:   parseStringList(svc.DependsOn),
		}
	}
	return out, nil
}

// parsePorts extracts the host-facing port from "HOST:CONTAINER" or bare
// "PORT" compose port mappings.
func parsePorts(raw []string) []int {
	var ports []int
	for _, p := range raw {
		spec := p
		if idx := strings.LastIndex(spec, ":"); idx != -1 {
			spec = spec[:idx]
		}
		spec = strings.TrimSuffix(spec, "/tcp")
		spec = strings.TrimSuffix(spec, "/udp")
		if n, err := strconv.Atoi(spec); err == nil {
			ports = append(ports, n)
		}
	}
	return ports
}

// parseEnvironment accepts both compose's map form and list ("KEY=VALUE")
// form for the `environment` key.
func parseEnvironment(node yaml.Node) map[string]string {
	env := map[string]string{}

	switch node.Kind {
	case yaml.MappingNode:
		var m map[string]string
		if err := node.Decode(&m); err == nil {
			env = m
		}
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err == nil {
			for _, entry := range list {
				if k, v, ok := strings.Cut(entry, "="); ok {
					env[k] = v
				}
			}
		}
	}
	return env
}

// parseStringList accepts both the list and map forms depose_on can take.
func parseStringList(node yaml.Node) []string {
	switch node.Kind {
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err == nil {
			return list
		}
	case yaml.MappingNode:
		var m map[string]any
		if err := node.Decode(&m); err == nil {
			out := make([]string, 0, len(m))
			for k := range m {
				out = append(out, k)
			}
			return out
		}
	}
	return nil
}
