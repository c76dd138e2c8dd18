package store

import (
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func TestConfigValidateDefaults(t *testing.T) {
	cfg := Config{}
	cfg.validate()

	if cfg.Table != "cellar_entities" {
		t.Errorf("expected default table, got %q", cfg.Table)
	}
	if cfg.CounterPartition != "__counters" {
		t.Errorf("expected default counter partition, got %q", cfg.CounterPartition)
	}
}

func TestConfigValidateKeepsExplicitValues(t *testing.T) {
	cfg := Config{Table: "custom", CounterPartition: "__seq"}
	cfg.validate()

	if cfg.Table != "custom" || cfg.CounterPartition != "__seq" {
		t.Errorf("explicit values overwritten: %+v", cfg)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	key := map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: "recipes"},
		"sk": &types.AttributeValueMemberN{Value: "17"},
	}

	token, err := encodeCursor(key)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	decoded, err := decodeCursor(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	pk, ok := decoded["pk"].(*types.AttributeValueMemberS)
	if !ok || pk.Value != "recipes" {
		t.Errorf("expected pk 'recipes', got %v", decoded["pk"])
	}
	sk, ok := decoded["sk"].(*types.AttributeValueMemberN)
	if !ok || sk.Value != "17" {
		t.Errorf("expected sk '17', got %v", decoded["sk"])
	}
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	tests := []struct {
		name   string
		cursor string
	}{
		{name: "not base64", cursor: "!!!not-base64!!!"},
		{name: "base64 but not json", cursor: "bm90LWpzb24="},
		{name: "empty", cursor: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeCursor(tt.cursor)
			if !errors.Is(err, ErrBadCursor) {
				t.Errorf("expected ErrBadCursor, got %v", err)
			}
		})
	}
}

func TestMarshalRecordRejectsNonNumericID(t *testing.T) {
	_, err := marshalRecord("styles", "abc", Record{"name": "IPA"})
	if err == nil {
		t.Error("expected error for non-numeric id")
	}
}

func TestMarshalUnmarshalRecordRoundTrip(t *testing.T) {
	rec := Record{
		"id":   "3",
		"self": "http://localhost:8080/styles/3",
		"name": "IPA",
		"ibu":  60.0,
	}

	item, err := marshalRecord("styles", "3", rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if _, ok := item["pk"]; !ok {
		t.Error("expected pk key attribute")
	}
	if _, ok := item["sk"]; !ok {
		t.Error("expected sk key attribute")
	}

	back, err := unmarshalRecord(item)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := back["pk"]; ok {
		t.Error("key attribute pk leaked into record")
	}
	if back["name"] != "IPA" {
		t.Errorf("expected name IPA, got %v", back["name"])
	}
	if back["ibu"] != 60.0 {
		t.Errorf("expected ibu 60, got %v", back["ibu"])
	}
}

func TestEntityKeyRejectsNonNumericID(t *testing.T) {
	d := NewDynamo(nil, DefaultConfig())
	if _, err := d.entityKey("styles", "abc"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for non-numeric id, got %v", err)
	}
}
