package repository

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// toDoc converts v into an OxiDB document, dropping idKey so the server
// assigns "_id".
func toDoc(v any, idKey string) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", v, err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%T to doc: %w", v, err)
	}
	delete(doc, idKey)
	return doc, nil
}

// fromDoc decodes an OxiDB document into T with "_id" moved under idKey.
func fromDoc[T any](doc map[string]any, idKey string) (*T, error) {
	normalizeID(doc, idKey)
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal doc: %w", err)
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("unmarshal %T: %w", v, err)
	}
	return &v, nil
}

// normalizeID moves OxiDB's numeric "_id" into a string under key.
func normalizeID(doc map[string]any, key string) {
	id, ok := doc["_id"]
	if !ok {
		return
	}
	delete(doc, "_id")
	switch v := id.(type) {
	case float64:
		doc[key] = fmt.Sprintf("%.0f", v)
	case int:
		doc[key] = strconv.Itoa(v)
	case string:
		doc[key] = v
	}
}

// extractID gets the inserted document ID from an OxiDB insert response.
func extractID(result map[string]any) string {
	if id, ok := result["id"]; ok {
		switch v := id.(type) {
		case string:
			return v
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}

// toNumericID converts a string ID to float64 for OxiDB queries.
func toNumericID(id string) any {
	if n, err := strconv.ParseFloat(id, 64); err == nil {
		return n
	}
	return id
}
