package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/festy23/consultant_staffing/internal/apperror"
)

func TestConsultant_Summary(t *testing.T) {
	c := Consultant{ID: "c-1", Name: "Dr. Okafor", Email: "okafor@example.org", Specialty: "Cardiology"}

	data, err := json.Marshal(c.Summary())
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"c-1","name":"Dr. Okafor","email":"okafor@example.org"}`, string(data))
}

func TestConsultant_TableName(t *testing.T) {
	assert.Equal(t, "consultants", Consultant{}.TableName())
}

func TestNotFound(t *testing.T) {
	err := NotFound("c-9")
	var nf *apperror.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, Kind, nf.Kind)
	assert.Equal(t, "consultant c-9 not found", err.Error())
}
