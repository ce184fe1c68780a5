/**
 *
 * 最近计算结果的双端队列
 * 新结果从头部加入, 队列满时从尾部丢弃最旧的结果
 *
 */

package deque

import "enginecycle/model"

type Deque interface {
	// 队列的长度
	Size() int

	// 获取队列中对应下标的结果, 0 为最新
	Get(i int) *model.Trace

	// 正向遍历
	Traverse(f func(i int, item *model.Trace))

	// 在队列结尾增加一个元素
	AddLast(item *model.Trace)

	// 在队列结尾删除一个元素
	RemoveLast() *model.Trace

	// 在队列头部增加一个元素
	AddFirst(item *model.Trace)

	// 在队列头部删除一个元素
	RemoveFirst() *model.Trace

	// 头部加入, 满时先丢弃尾部
	Push(item *model.Trace)

	IsFull() bool

	IsEmpty() bool
}
