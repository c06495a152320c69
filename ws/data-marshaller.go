package ws

import (
	"github.com/goccy/go-json"
)

const JSONEncoding = "application/json"

// Data is an encoded value together with its encoding.
type Data struct {
	Encoding string `json:"encoding" dynamodbav:"encoding"`
	Data     []byte `json:"data" dynamodbav:"data"`
}

func MarshalToData(value any) (Data, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return Data{}, err
	}

	return Data{
		Encoding: JSONEncoding,
		Data:     data,
	}, nil
}

func UnmarshalFromData(data Data, value any) error {
	if data.Encoding != JSONEncoding {
		return InvalidEncoding(JSONEncoding, data.Encoding)
	}
	return json.Unmarshal(data.Data, value)
}
