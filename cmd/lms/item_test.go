package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewItemCommand(t *testing.T) {
	cmd := newItemCommand()

	assert.Equal(t, "item", cmd.Use)
	assert.True(t, cmd.HasSubCommands())
}

func TestStartingBox_Set(t *testing.T) {
	testCases := []struct {
		name    string
		value   string
		want    StartingBox
		wantErr string
	}{
		{
			name:  "lowest box",
			value: "1",
			want:  StartingBox(1),
		},
		{
			name:  "highest box",
			value: "5",
			want:  StartingBox(5),
		},
		{
			name:    "out of range",
			value:   "6",
			wantErr: "invalid box: 6",
		},
		{
			name:    "not a number",
			value:   "two",
			wantErr: "invalid box: two",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var box StartingBox
			err := box.Set(tc.value)
			if tc.wantErr != "" {
				assert.EqualError(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, box)
		})
	}
}

func TestNewItemAddCommand_InvalidBox(t *testing.T) {
	cmd := newItemAddCommand()
	cmd.SetArgs([]string{"--owner", "1", "--box", "9"})

	err := cmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid box: 9")
}

func TestNewItemAddCommand_MissingOwner(t *testing.T) {
	cmd := newItemAddCommand()
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "--owner must be a positive learner ID")
}

func TestNewItemDeactivateCommand_InvalidID(t *testing.T) {
	cmd := newItemDeactivateCommand()
	cmd.SetArgs([]string{"not-a-number"})

	err := cmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid item ID")
}

func TestNewItemReactivateCommand_InvalidID(t *testing.T) {
	cmd := newItemReactivateCommand()
	cmd.SetArgs([]string{"not-a-number"})

	err := cmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid item ID")
}
