package crdt

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iudanet/zapsync/internal/models"
)

// ErrInvalidUpdate возвращается для update, который не является состоянием документа
var ErrInvalidUpdate = errors.New("invalid document update")

// EncodeState кодирует состояние документа в бинарный update
func EncodeState(state *models.DocumentState) ([]byte, error) {
	if state == nil {
		return nil, fmt.Errorf("%w: state is nil", ErrInvalidUpdate)
	}

	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document state: %w", err)
	}
	return data, nil
}

// DecodeState разбирает бинарный update.
// Регистры без ключа и с отрицательным timestamp отклоняются целиком.
func DecodeState(update []byte) (*models.DocumentState, error) {
	trimmed := bytes.TrimSpace(update)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: not a JSON object", ErrInvalidUpdate)
	}

	var state models.DocumentState
	if err := json.Unmarshal(trimmed, &state); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidUpdate, err)
	}

	for i, reg := range state.Registers {
		if reg == nil || reg.Key == "" {
			return nil, fmt.Errorf("%w: register %d has no key", ErrInvalidUpdate, i)
		}
		if reg.Timestamp < 0 {
			return nil, fmt.Errorf("%w: register %q has negative timestamp", ErrInvalidUpdate, reg.Key)
		}
	}

	return &state, nil
}
