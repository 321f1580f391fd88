package store

import (
	"encoding/json"
	"errors"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeAnt(r AntRecord) ([]byte, error) {
	return json.Marshal(r)
}

func DecodeAnt(data []byte) (AntRecord, error) {
	var record AntRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return AntRecord{}, err
	}
	if err := checkVersion(record.VersionedRecord); err != nil {
		return AntRecord{}, err
	}
	return record, nil
}

func checkVersion(v VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
