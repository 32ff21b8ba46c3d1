package gridmap

var demoRows = [][]int{
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	{0, 1, 1, 1, 0, 0, 1, 1, 1, 0},
	{0, 0, 0, 1, 0, 0, 0, 0, 1, 0},
	{0, 1, 0, 1, 0, 1, 1, 0, 1, 0},
	{0, 1, 0, 0, 0, 0, 0, 0, 1, 0},
	{0, 1, 1, 1, 1, 0, 1, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 1, 1, 1, 0},
	{0, 1, 1, 1, 0, 0, 0, 0, 1, 0},
	{0, 0, 0, 1, 0, 1, 1, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 0, 0, 1, 0},
}

// DemoGrid returns the 10x10 maze used by the demo scenario. Row index is y.
func DemoGrid() *GridMap {
	g, err := FromInts(demoRows)
	if err != nil {
		panic(err)
	}
	return g
}
