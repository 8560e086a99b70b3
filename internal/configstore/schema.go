package configstore

// backendServersSchema and groupsSchema declaratively describe the on-disk
// config file shapes, validated with xeipuuv/gojsonschema before the
// stricter Go-level invariant checks in internal/group run.
const backendServersSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["mcpServers"],
  "additionalProperties": false,
  "properties": {
    "mcpServers": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["command"],
        "additionalProperties": false,
        "properties": {
          "command": { "type": "string", "minLength": 1 },
          "args": { "type": "array", "items": { "type": "string" } },
          "env": { "type": "object", "additionalProperties": { "type": "string" } },
          "cwd": { "type": "string" }
        }
      }
    }
  }
}`

const groupsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["groups"],
  "additionalProperties": false,
  "properties": {
    "groups": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["name"],
        "additionalProperties": false,
        "properties": {
          "name": { "type": "string", "minLength": 1 },
          "description": { "type": "string" },
          "tools": { "type": "array" },
          "resources": { "type": "array" },
          "prompts": { "type": "array" }
        }
      }
    }
  }
}`
