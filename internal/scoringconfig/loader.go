package scoringconfig

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML model file and returns the Model with raw bytes
// SSOT 핵심: KnownFields(true)로 오타/미사용 필드 즉시 실패
func Load(path string) (*Model, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	model, err := Parse(data)
	if err != nil {
		return nil, data, err
	}
	return model, data, nil
}

// Parse decodes and validates a YAML model document
func Parse(data []byte) (*Model, error) {
	var model Model
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // 알 수 없는 필드 발견 시 에러 반환
	if err := dec.Decode(&model); err != nil {
		return nil, fmt.Errorf("decode scoring model: %w", err)
	}

	if err := Validate(&model); err != nil {
		return nil, err
	}
	return &model, nil
}

// LoadOrDefault loads path, or returns DefaultModel when path is empty
func LoadOrDefault(path string) (*Model, error) {
	if path == "" {
		return DefaultModel(), nil
	}
	model, _, err := Load(path)
	if err != nil {
		return nil, fmt.Errorf("load scoring model %s: %w", path, err)
	}
	return model, nil
}

// Hash generates SHA256 hash from Model (canonical JSON)
// 주의: encoding/json은 map 키를 정렬하므로 해시 재현성 보장
func Hash(model *Model) (string, error) {
	jsonBytes, err := json.Marshal(model)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}

// Marshal renders the model as YAML (model show)
func Marshal(model *Model) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(model); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
