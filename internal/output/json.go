package output

import (
	"encoding/json"

	"github.com/portkill/portkill/pkg/model"
)

func ToJSON(s model.Snapshot) (string, error) {
	if s.Records == nil {
		s.Records = []model.SocketRecord{}
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
