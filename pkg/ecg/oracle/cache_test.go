/*
Copyright 2022 The pdfcpu Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package oracle_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mechiko/ecgdigitizer/pkg/ecg/oracle"
)

func TestCacheGetMissOnEmptyCache(t *testing.T) {
	c := oracle.NewCache("", time.Hour, 0, false)
	_, ok := c.Get(oracle.CacheKey{ImageHash: "a", PromptHash: "b"})
	require.False(t, ok)
}

func TestCachePutThenGetInMemory(t *testing.T) {
	c := oracle.NewCache("", time.Hour, 0, false)
	key := oracle.CacheKey{ImageHash: "imghash", PromptHash: "prompthash"}
	want := oracle.Analysis{Notes: "cached analysis"}

	require.NoError(t, c.Put(key, want))
	got, ok := c.Get(key)
	require.True(t, ok)
	require.Equal(t, "cached analysis", got.Notes)
}

func TestCacheGetExpiresPastTTL(t *testing.T) {
	c := oracle.NewCache("", time.Nanosecond, 0, false)
	key := oracle.CacheKey{ImageHash: "x", PromptHash: "y"}
	require.NoError(t, c.Put(key, oracle.Analysis{Notes: "stale soon"}))

	time.Sleep(time.Millisecond)
	_, ok := c.Get(key)
	require.False(t, ok)
}

func TestCachePutThenDiskRoundTripUncompressed(t *testing.T) {
	dir := t.TempDir()
	c := oracle.NewCache(dir, time.Hour, 0, false)
	key := oracle.CacheKey{ImageHash: "disk", PromptHash: "entry"}
	require.NoError(t, c.Put(key, oracle.Analysis{Notes: "on disk"}))

	reopened := oracle.NewCache(dir, time.Hour, 0, false)
	got, ok := reopened.Get(key)
	require.True(t, ok)
	require.Equal(t, "on disk", got.Notes)
}

func TestCachePutThenDiskRoundTripCompressed(t *testing.T) {
	dir := t.TempDir()
	c := oracle.NewCache(dir, time.Hour, 0, true)
	key := oracle.CacheKey{ImageHash: "disk", PromptHash: "compressed"}
	require.NoError(t, c.Put(key, oracle.Analysis{Notes: "compressed on disk"}))

	reopened := oracle.NewCache(dir, time.Hour, 0, true)
	got, ok := reopened.Get(key)
	require.True(t, ok)
	require.Equal(t, "compressed on disk", got.Notes)
}

func TestCacheClearRemovesMemoryAndDiskEntries(t *testing.T) {
	dir := t.TempDir()
	c := oracle.NewCache(dir, time.Hour, 0, false)
	key := oracle.CacheKey{ImageHash: "gone", PromptHash: "soon"}
	require.NoError(t, c.Put(key, oracle.Analysis{Notes: "to be cleared"}))

	require.NoError(t, c.Clear())
	_, ok := c.Get(key)
	require.False(t, ok)
}

func TestHashStridedSampleIsDeterministicAndDimensionSensitive(t *testing.T) {
	pix := make([]byte, 64)
	for i := range pix {
		pix[i] = byte(i)
	}
	h1 := oracle.HashStridedSample(pix, 4, 4, 97)
	h2 := oracle.HashStridedSample(pix, 4, 4, 97)
	require.Equal(t, h1, h2)

	h3 := oracle.HashStridedSample(pix, 8, 2, 97)
	require.NotEqual(t, h1, h3)
}

func TestHashTextIsDeterministic(t *testing.T) {
	require.Equal(t, oracle.HashText("prompt"), oracle.HashText("prompt"))
	require.NotEqual(t, oracle.HashText("prompt"), oracle.HashText("other prompt"))
}
