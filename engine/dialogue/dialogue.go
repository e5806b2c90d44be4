// Package dialogue implements the NPC topic system. Topic requirements
// are authored in the legacy beat-graph condition shape and pass through
// the worldstate adapter on every check - the adapter is the sole
// translation boundary for that shape.
package dialogue

import (
	"github.com/nathoo/arcanum/engine/worldstate"
	"github.com/nathoo/arcanum/types"
)

// AvailableTopics returns topic keys whose conditions are met.
func AvailableTopics(npc *types.NPCDef, eval *worldstate.Evaluator) []string {
	if npc == nil || npc.Topics == nil {
		return nil
	}

	var result []string
	for key, topic := range npc.Topics {
		if requirementsMet(topic, eval) {
			result = append(result, key)
		}
	}
	return result
}

// SelectTopic returns the text and effects for a chosen topic.
// Returns empty text and nil effects if the topic doesn't exist or its
// conditions are not met.
func SelectTopic(npc *types.NPCDef, topicKey string, eval *worldstate.Evaluator) (string, []types.Effect) {
	if npc == nil || npc.Topics == nil {
		return "", nil
	}

	topic, ok := npc.Topics[topicKey]
	if !ok {
		return "", nil
	}

	if !requirementsMet(topic, eval) {
		return "", nil
	}

	return topic.Text, topic.Effects
}

func requirementsMet(topic types.TopicDef, eval *worldstate.Evaluator) bool {
	for _, legacy := range topic.Requires {
		if !eval.Check(worldstate.FromExpr(legacy)) {
			return false
		}
	}
	return true
}
