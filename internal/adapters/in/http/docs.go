package http

import (
	"encoding/json"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/swaggo/swag"
)

// apiDoc serves the loaded contract to the swagger UI.
type apiDoc struct {
	json string
}

func (d apiDoc) ReadDoc() string {
	return d.json
}

var registerDoc sync.Once

// registerAPIDoc publishes doc under swag's default instance name, which is
// where echo-swagger looks for it. Only the first call registers.
func registerAPIDoc(doc *openapi3.T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	registerDoc.Do(func() {
		swag.Register(swag.Name, apiDoc{json: string(raw)})
	})
	return nil
}
