// Package ai 对接外部题目生成服务。生成结果只做结构校验，内容是否可用由调用方判断
package ai

import (
	"context"
	"errors"
	"fmt"
)

type Kind string

const (
	// KindExam 检定题，选项数不限
	KindExam Kind = "exam"
	// KindExample 研修练习题，4 个选项
	KindExample Kind = "example"
)

type GeneratedChoice struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

type GeneratedQuestion struct {
	Text        string            `json:"text"`
	Explanation string            `json:"explanation"`
	Choices     []GeneratedChoice `json:"choices"`
}

type Request struct {
	Kind   Kind
	Topic  string
	Source string
	Count  int
}

type QuestionGenerator interface {
	Generate(ctx context.Context, req Request) ([]GeneratedQuestion, error)
}

var ErrEmptyResponse = errors.New("generator returned no content")

// InvalidResponseError 返回内容不是合法 JSON 或不符合 schema
type InvalidResponseError struct {
	Content string
	Err     error
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid generator response: %v", e.Err)
}

func (e *InvalidResponseError) Unwrap() error {
	return e.Err
}
