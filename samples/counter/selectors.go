package counter

// SelectCount projects the current count.
func SelectCount(state Counter) int {
	return state.Value
}
