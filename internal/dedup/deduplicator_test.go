/*
 * Copyright (c) 2026, Heartscope Labs.
 *
 * Heartscope Labs licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package dedup

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/heartscope/dating-data-service/internal/ingestion/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeduplicate_SamePlatformSameID(t *testing.T) {
	in := []model.Participant{
		{ID: "p1", Platform: model.PlatformTinder, Name: "Alice"},
		{ID: "p1", Platform: model.PlatformTinder, Age: 29, Location: "Berlin"},
		{ID: "p2", Platform: model.PlatformTinder, Name: "Bob"},
	}

	out := Deduplicate(in)
	require.Len(t, out, 2)
	assert.Equal(t, "p1", out[0].ID)
	assert.Equal(t, "Alice", out[0].Name)
	assert.Equal(t, 29, out[0].Age)
	assert.Equal(t, "Berlin", out[0].Location)
	assert.Equal(t, "Bob", out[1].Name)
}

func TestDeduplicate_CrossPlatformByName(t *testing.T) {
	in := []model.Participant{
		{ID: "t1", Platform: model.PlatformTinder, Name: "Alice", Age: 28},
		{ID: "h1", Platform: model.PlatformHinge, Name: "  ALICE ", Location: "Berlin"},
	}

	out := Deduplicate(in)
	require.Len(t, out, 1)
	// Canonical identity comes from the first-seen record.
	assert.Equal(t, "t1", out[0].ID)
	assert.Equal(t, model.PlatformTinder, out[0].Platform)
	assert.Equal(t, 28, out[0].Age)
	assert.Equal(t, "Berlin", out[0].Location)
}

func TestDeduplicate_SamePlatformSameNameDifferentID(t *testing.T) {
	// Two distinct people can share a display name on one platform.
	in := []model.Participant{
		{ID: "p1", Platform: model.PlatformTinder, Name: "Alice"},
		{ID: "p2", Platform: model.PlatformTinder, Name: "Alice"},
	}
	assert.Len(t, Deduplicate(in), 2)
}

func TestDeduplicate_EmptyNamesNeverMatchCrossPlatform(t *testing.T) {
	in := []model.Participant{
		{ID: "t1", Platform: model.PlatformTinder},
		{ID: "h1", Platform: model.PlatformHinge},
	}
	assert.Len(t, Deduplicate(in), 2)
}

func TestDeduplicate_MergeSemantics(t *testing.T) {
	a := model.NewAttributes()
	a.Set("city", "Berlin")
	b := model.NewAttributes()
	b.Set("city", "Hamburg")
	b.Set("job", "engineer")

	in := []model.Participant{
		{
			ID: "p1", Platform: model.PlatformTinder, Name: "Alice",
			Traits:     []string{"hiking", "music"},
			Prompts:    []model.Prompt{{Title: "q1", Response: "a1"}},
			Attributes: a,
		},
		{
			ID: "p1", Platform: model.PlatformTinder, Name: "Alicia",
			Traits:     []string{"music", "cooking"},
			Prompts:    []model.Prompt{{Title: "q2", Response: "a2"}},
			IsUser:     true,
			Attributes: b,
		},
	}

	out := Deduplicate(in)
	require.Len(t, out, 1)
	p := out[0]

	assert.Equal(t, "Alice", p.Name, "first non-empty scalar wins")
	assert.Equal(t, []string{"hiking", "music", "cooking"}, p.Traits, "traits union keeps order")
	assert.Len(t, p.Prompts, 2, "prompts concatenate")
	assert.True(t, p.IsUser, "is_user survives from either record")

	city, _ := p.Attributes.Get("city")
	assert.Equal(t, "Berlin", city, "existing attribute keys are not overwritten")
	job, ok := p.Attributes.Get("job")
	require.True(t, ok)
	assert.Equal(t, "engineer", job)
}

func TestDeduplicate_OrderPermutation(t *testing.T) {
	// Shuffling the input changes which record of a cluster is canonical
	// but never which people survive or what the merged fields hold.
	in := []model.Participant{
		{ID: "t1", Platform: model.PlatformTinder, Name: "Alice", Age: 28},
		{ID: "t1", Platform: model.PlatformTinder, Name: "Alice", Traits: []string{"hiking"}},
		{ID: "h1", Platform: model.PlatformHinge, Name: "alice", Location: "Berlin"},
		{ID: "t2", Platform: model.PlatformTinder, Name: "Bob"},
		{ID: "h2", Platform: model.PlatformHinge, Name: "Cara"},
	}
	baseline := survivorNames(Deduplicate(in))

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]model.Participant(nil), in...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		out := Deduplicate(shuffled)
		assert.ElementsMatch(t, baseline, survivorNames(out))

		for _, p := range out {
			if strings.EqualFold(p.Name, "Alice") {
				assert.Equal(t, 28, p.Age)
				assert.Equal(t, "Berlin", p.Location)
				assert.Equal(t, []string{"hiking"}, p.Traits)
			}
		}
	}
}

func survivorNames(participants []model.Participant) []string {
	var names []string
	for _, p := range participants {
		names = append(names, strings.ToLower(p.Name))
	}
	return names
}

func TestDeduplicate_Convergence(t *testing.T) {
	in := []model.Participant{
		{ID: "t1", Platform: model.PlatformTinder, Name: "Alice"},
		{ID: "h1", Platform: model.PlatformHinge, Name: "alice"},
		{ID: "t1", Platform: model.PlatformTinder, Age: 30},
	}

	once := Deduplicate(in)
	twice := Deduplicate(once)
	assert.Equal(t, once, twice, "a second pass must be a no-op")
}

func TestDeduplicate_DoesNotMutateInput(t *testing.T) {
	in := []model.Participant{
		{ID: "p1", Platform: model.PlatformTinder, Traits: []string{"a"}},
		{ID: "p1", Platform: model.PlatformTinder, Traits: []string{"b"}},
	}
	_ = Deduplicate(in)
	assert.Equal(t, []string{"a"}, in[0].Traits)
	assert.Equal(t, []string{"b"}, in[1].Traits)
}

func TestDeduplicate_Empty(t *testing.T) {
	assert.Empty(t, Deduplicate(nil))
}
