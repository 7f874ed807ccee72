package story

// PlaceholderNode is the fixed node rendered in live mode when no
// generation backend is configured or a generation attempt failed. It
// always offers exactly one retry choice.
func PlaceholderNode() *Node {
	return &Node{
		Text: TextVariants{
			"The mist refuses to part. No story backend answered: either " +
				"live mode has no endpoint configured, or the last " +
				"generation attempt failed. You can press on to try again.",
		},
		Choices: []Choice{
			{Text: "Press on"},
		},
	}
}
