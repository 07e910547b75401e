package notify

import (
	"bytes"
	"fmt"
	"html/template"

	"bais_express/internal/model"
)

var resetTemplate = template.Must(template.New("reset").Parse(`<p>Hello,</p>
<p>Click the link below to reset your password:</p>
<a href="{{.Link}}">{{.Link}}</a>
<p>This link is valid for {{.ValidFor}}.</p>
`))

var requestTemplate = template.Must(template.New("request").Parse(`<p><b>Name:</b> {{.Name}}</p>
<p><b>Phone:</b> {{.Phone}}</p>
<p><b>Pickup:</b> {{.Pickup}}</p>
<p><b>Drop:</b> {{.DropLocation}}</p>
<p><b>Cargo:</b> {{.Cargo}}</p>
`))

func renderReset(link, validFor string) (string, error) {
	return render(resetTemplate, struct{ Link, ValidFor string }{link, validFor})
}

func renderRequest(rc model.RequestCall) (string, error) {
	return render(requestTemplate, rc)
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s template: %w", t.Name(), err)
	}
	return buf.String(), nil
}
