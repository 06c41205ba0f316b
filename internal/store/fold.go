package store

// foldRows 把按连接展开的平铺行折叠回嵌套实体。
// 同一个 key 的首行负责创建实体，之后每一行（包括首行）都会交给 appendChild，
// 由它决定是否把子记录挂到实体上。输出顺序与 key 首次出现的顺序一致。
//
// 三处近似重复的分组逻辑（列表、单篇、按标签过滤）共用这一个实现。
func foldRows[R any, K comparable, E any](
	rows []R,
	key func(R) K,
	seed func(R) *E,
	appendChild func(*E, R),
) []*E {
	index := make(map[K]*E, len(rows))
	ordered := make([]*E, 0, len(rows))

	for _, row := range rows {
		k := key(row)
		entity, ok := index[k]
		if !ok {
			entity = seed(row)
			index[k] = entity
			ordered = append(ordered, entity)
		}
		appendChild(entity, row)
	}

	return ordered
}
