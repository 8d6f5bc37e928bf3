package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lfl-lab/dutybot/internal/config"
	"github.com/lfl-lab/dutybot/pkg/clients/gmailclient"
)

func TestCanAlertOperator(t *testing.T) {
	// Nothing initialized at all: nowhere to send, no address to send to.
	assert.False(t, canAlertOperator(nil))
	assert.False(t, canAlertOperator(&App{}))

	// Config loaded but the gmail client never came up.
	assert.False(t, canAlertOperator(&App{cfg: &config.Config{OperatorEmail: "operator@lab.edu"}}))

	// Gmail up without config cannot happen in initApp order, but the
	// helper must not trust that ordering.
	assert.False(t, canAlertOperator(&App{gmail: &gmailclient.Client{}}))

	// Once config and gmail are both up, any later failure (roster,
	// tracker, calendar, slack, or the run itself) gets an alert.
	assert.True(t, canAlertOperator(&App{
		cfg:   &config.Config{OperatorEmail: "operator@lab.edu"},
		gmail: &gmailclient.Client{},
	}))
}
