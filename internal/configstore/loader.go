package configstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/hughescr/mcp-proxy-processor/internal/mcperr"
	"github.com/hughescr/mcp-proxy-processor/internal/model"
)

// LoadBackendServers reads, schema-validates, and strictly decodes
// backend-servers.json from the XDG user config directory, migrating the
// legacy ./config/ copy first if needed.
func LoadBackendServers() (*model.BackendServersFile, error) {
	if err := MigrateLegacyConfig(backendServersFileName); err != nil {
		return nil, err
	}
	path, err := BackendServersPath()
	if err != nil {
		return nil, err
	}

	var out model.BackendServersFile
	if err := loadAndValidate(path, backendServersSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LoadGroups reads, schema-validates, and strictly decodes groups.json.
func LoadGroups() (*model.GroupsFile, error) {
	if err := MigrateLegacyConfig(groupsFileName); err != nil {
		return nil, err
	}
	path, err := GroupsPath()
	if err != nil {
		return nil, err
	}

	var out model.GroupsFile
	if err := loadAndValidate(path, groupsSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func loadAndValidate(path, schema string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return mcperr.ConfigInvalid(path, "config file does not exist", err)
		}
		return mcperr.ConfigInvalid(path, "failed to read config file", err)
	}

	if err := validateAgainstSchema(path, schema, data); err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return mcperr.ConfigInvalid(path, "failed to parse config file", err)
	}
	return nil
}

func validateAgainstSchema(path, schema string, data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(schema)
	docLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return mcperr.ConfigInvalid(path, "failed to run schema validation", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return mcperr.ConfigInvalid(path, fmt.Sprintf("schema validation failed: %s", strings.Join(msgs, "; ")), nil)
	}
	return nil
}
