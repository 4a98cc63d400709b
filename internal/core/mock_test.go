package core

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type MockDriver struct {
	Queries []string
	Params  []map[string]interface{}
	Err     error
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	m.Queries = append(m.Queries, query)
	m.Params = append(m.Params, params)
	if m.Err != nil {
		return neo4j.EagerResult{}, m.Err
	}
	return neo4j.EagerResult{}, nil
}

func (m *MockDriver) BuildIndices(ctx context.Context) error {
	return nil
}

func (m *MockDriver) Close(ctx context.Context) error {
	return nil
}

type MockLLM struct {
	Response      string
	ResponseQueue []string
	Err           error
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.ResponseQueue) > 0 {
		resp := m.ResponseQueue[0]
		m.ResponseQueue = m.ResponseQueue[1:]
		return resp, nil
	}
	return m.Response, nil
}
