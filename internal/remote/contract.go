package remote

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const itemSchema = `{
  "type": "object",
  "required": ["todo_id", "description"],
  "properties": {
    "todo_id": {"type": "integer"},
    "description": {"type": ["string", "null"]}
  }
}`

const (
	itemSchemaURL = "https://schemas.todosync.dev/item.json"
	listSchemaURL = "https://schemas.todosync.dev/list.json"
)

const listSchema = `{
  "type": "array",
  "items": {"$ref": "item.json"}
}`

// contract holds the compiled response schemas of the todo service.
type contract struct {
	item *jsonschema.Schema
	list *jsonschema.Schema
}

func newContract() (*contract, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(itemSchemaURL, strings.NewReader(itemSchema)); err != nil {
		return nil, fmt.Errorf("add item schema: %w", err)
	}
	if err := compiler.AddResource(listSchemaURL, strings.NewReader(listSchema)); err != nil {
		return nil, fmt.Errorf("add list schema: %w", err)
	}
	item, err := compiler.Compile(itemSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile item schema: %w", err)
	}
	list, err := compiler.Compile(listSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile list schema: %w", err)
	}
	return &contract{item: item, list: list}, nil
}

// mustContract panics only if the embedded schemas are broken.
func mustContract() *contract {
	c, err := newContract()
	if err != nil {
		panic(err)
	}
	return c
}

func (c *contract) checkList(body []byte) error {
	return check(c.list, body)
}

func (c *contract) checkItem(body []byte) error {
	return check(c.item, body)
}

func check(schema *jsonschema.Schema, body []byte) error {
	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}
