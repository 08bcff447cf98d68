// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package run

import (
	"context"
	"testing"

	"github.com/matt-FFFFFF/coop/internal/taskregistry"
	"github.com/matt-FFFFFF/coop/internal/tasks/valuetask"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_getURL(t *testing.T) {
	testCases := []struct {
		name     string
		url      string
		wantErr  error
		contains string
	}{
		{
			name:    "empty url returns error",
			url:     "",
			wantErr: ErrGetPlanFile,
		},
		{
			name:    "unreachable remote fails",
			url:     "git::http://notexist//file.yaml",
			wantErr: ErrGetPlanFile,
		},
		{
			name:     "local file",
			url:      "./testdata/plan.yaml",
			contains: "name: testdata",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := getURL(context.Background(), tc.url)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, data)

				return
			}

			require.NoError(t, err)
			assert.Contains(t, string(data), tc.contains)
		})
	}
}

func Test_splitFileNameFromGetterURL(t *testing.T) {
	testCases := []struct {
		url      string
		wantURL  string
		wantFile string
	}{
		{
			url:      "git::https://github.com/org/repo//plans/demo.yaml?ref=v1",
			wantURL:  "git::https://github.com/org/repo//plans?ref=v1",
			wantFile: "demo.yaml",
		},
		{
			url:      "git::https://github.com/org/repo//demo.yaml",
			wantURL:  "git::https://github.com/org/repo",
			wantFile: "demo.yaml",
		},
		{
			url: "https://example.com/demo.yaml",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.url, func(t *testing.T) {
			gotURL, gotFile := splitFileNameFromGetterURL(tc.url)
			assert.Equal(t, tc.wantURL, gotURL)
			assert.Equal(t, tc.wantFile, gotFile)
		})
	}
}

func Test_planFileName(t *testing.T) {
	assert.Equal(t, "demo.hcl", planFileName("git::https://github.com/org/repo//plans/demo.hcl?ref=main"))
	assert.Equal(t, "plan.yaml", planFileName("./testdata/plan.yaml"))
}

func Test_loadPlans(t *testing.T) {
	reg, err := taskregistry.New(valuetask.Register)
	require.NoError(t, err)

	plans, err := loadPlans(context.Background(), reg, []string{
		"./testdata/plan.yaml",
		"./testdata/plan.hcl",
		"./testdata/plan.toml",
	})
	require.NoError(t, err)
	require.Len(t, plans, 3)
	assert.Equal(t, "testdata", plans[0].Name)
	assert.Equal(t, "testdata-hcl", plans[1].Name)
	assert.Equal(t, "testdata-toml", plans[2].Name)

	_, err = loadPlans(context.Background(), reg, []string{""})
	require.ErrorIs(t, err, ErrGetPlanFile)
}
