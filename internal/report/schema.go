package report

// Schema is the JSON Schema (Draft 2020-12) for a single field dump
// file (fields_uniq/<field>s_uniq.json, fields_not_uniq/<field>s.json).
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/unbound-force/postprocess/field-dump.schema.json",
  "title": "Field Dump",
  "description": "All observed values of one tracked record field",
  "type": "object",
  "required": ["field_name", "is_uniq", "count", "items"],
  "additionalProperties": false,
  "properties": {
    "field_name": {
      "type": "string",
      "description": "Tracked record field"
    },
    "is_uniq": {
      "type": "boolean",
      "description": "Whether repeated values were collapsed"
    },
    "count": {
      "type": "integer",
      "minimum": 0,
      "description": "Number of entries in items"
    },
    "items": {
      "type": "array",
      "description": "Observed values; null and the \"null\" sentinel are excluded",
      "items": {
        "not": {
          "anyOf": [
            { "type": "null" },
            { "const": "null" }
          ]
        }
      }
    }
  }
}`

// ManifestSchema is the JSON Schema (Draft 2020-12) for
// fields_summary.json.
const ManifestSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/unbound-force/postprocess/fields-summary.schema.json",
  "title": "Fields Summary",
  "description": "One entry per field dump written into the same folder",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["field_name", "is_uniq", "count"],
    "additionalProperties": false,
    "properties": {
      "field_name": { "type": "string" },
      "is_uniq": { "type": "boolean" },
      "count": { "type": "integer", "minimum": 0 }
    }
  }
}`
