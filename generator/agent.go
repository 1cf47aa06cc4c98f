package generator

import (
	"context"
	"errors"
)

// Agent 负责根据页面描述生成页面。
type Agent struct {
	llm      LLMClient
	contract Contract
}

func NewAgent(llm LLMClient, contract Contract) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if _, err := ParseContract(string(contract)); err != nil {
		return nil, err
	}
	return &Agent{llm: llm, contract: contract}, nil
}

func (a *Agent) Contract() Contract {
	return a.contract
}

// Generate prompts the model with description and parses the reply.
// Failures carry the raw reply, see RawResponse.
func (a *Agent) Generate(ctx context.Context, description string) (Output, error) {
	prompt := BuildPagePrompt(description, a.contract)

	raw, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		return Output{}, err
	}
	out, err := ParseOutput(a.contract, raw)
	if err != nil {
		return Output{}, &ResponseError{Raw: raw, Err: err}
	}
	return out, nil
}
