package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Response is the closed set of shapes an agent call can come back in.
// The variants are BlockList, TextBlock, ContentBlock and Opaque.
type Response interface {
	fmt.Stringer
	isResponse()
}

// Block is an element of a BlockList. TextBlock, ContentBlock and Opaque
// are the only implementations.
type Block interface {
	fmt.Stringer
	isBlock()
}

// BlockList is a response that wraps its output in a list of blocks.
type BlockList struct {
	Blocks []Block
}

// TextBlock carries its output in a text field.
type TextBlock struct {
	Text string
}

// ContentBlock carries its output in a nested content field.
type ContentBlock struct {
	Content string
}

// Opaque is any other value, native data included.
type Opaque struct {
	Value any
}

func (BlockList) isResponse()    {}
func (TextBlock) isResponse()    {}
func (ContentBlock) isResponse() {}
func (Opaque) isResponse()       {}

func (TextBlock) isBlock()    {}
func (ContentBlock) isBlock() {}
func (Opaque) isBlock()       {}

func (l BlockList) String() string {
	if len(l.Blocks) == 0 {
		return "[]"
	}
	parts := make([]string, len(l.Blocks))
	for i, b := range l.Blocks {
		parts[i] = b.String()
	}
	return strings.Join(parts, "\n")
}

func (b TextBlock) String() string    { return b.Text }
func (b ContentBlock) String() string { return b.Content }

func (o Opaque) String() string {
	switch v := o.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	}
	data, err := json.Marshal(o.Value)
	if err != nil {
		return fmt.Sprint(o.Value)
	}
	return string(data)
}

// ParseResponse classifies a raw agent-runner document into a Response.
// Bodies that are not JSON become an Opaque string.
func ParseResponse(data []byte) Response {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return Opaque{Value: string(data)}
	}
	return classifyResponse(v)
}

func classifyResponse(v any) Response {
	if obj, ok := v.(map[string]any); ok {
		if items, ok := obj["content"].([]any); ok {
			blocks := make([]Block, 0, len(items))
			for _, item := range items {
				blocks = append(blocks, classifyBlock(item))
			}
			return BlockList{Blocks: blocks}
		}
	}
	switch b := classifyBlock(v).(type) {
	case TextBlock:
		return b
	case ContentBlock:
		return b
	default:
		return Opaque{Value: v}
	}
}

func classifyBlock(v any) Block {
	obj, ok := v.(map[string]any)
	if !ok {
		return Opaque{Value: v}
	}
	if s, ok := obj["content"].(string); ok {
		return ContentBlock{Content: s}
	}
	if s, ok := obj["text"].(string); ok {
		return TextBlock{Text: s}
	}
	return Opaque{Value: v}
}
