package board

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"StarTrade/internal/model"
)

// LoadState reads the board layout from a JSON file. Returns a zero state if the file doesn't exist.
func LoadState(filePath string) (*model.BoardState, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.BoardState{}, nil
		}
		return nil, err
	}
	var state model.BoardState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// SaveState writes the board layout to a JSON file.
func SaveState(filePath string, state *model.BoardState) error {
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(filePath, data, 0644)
}
