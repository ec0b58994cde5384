// Package crawlers 提供页面读取与遍历所需的基础组件
//
// # 概述
//
// crawlers包实现两种页面读取器(静态Colly、动态go-rod)、按策略出队的待爬队列、
// 已访问集合以及按系统资源限制并发数的资源监控器。爬取主循环位于core包。
//
// # 核心组件
//
// ## Frontier (待爬队列)
//
// 按遍历策略决定出队顺序的URL容器:
//   - bfs: 广度优先,先进先出(linkedlistqueue)
//   - dfs: 深度优先,后进先出(arraystack)
//
// 队列不做去重,同一URL可能被多个页面重复加入,出队时由已访问集合过滤。
// 容量为0表示不限;已满时Add返回false。Resize不能缩到待处理数以下。
//
//	frontier, err := NewFrontier(models.StrategyBreadthFirst, 0)
//	frontier.AddAll(page.Links)
//	for frontier.HasNext() {
//	    url, _ := frontier.Next()
//	}
//
// 爬取中切换策略使用SwapFrontier,待处理URL按旧队列的出队顺序全部转入新队列:
//
//	frontier, err = SwapFrontier(frontier, models.StrategyDepthFirst)
//
// ## StaticReader
//
// 基于Colly的静态读取器。每次Read创建独立collector并共享同一HTTP客户端,
// 通过OnHTML回调收集 a[href],通过OnResponse提取词语。
// gzip由Colly处理,br/deflate在OnResponse中解压后重新提取链接。
//
//	reader := NewStaticReader(StaticReaderConfig{Timeout: 10 * time.Second}, headerManager)
//	page, err := reader.Read(ctx, "https://example.com")
//
// ## DynamicReader
//
// 基于go-rod的动态读取器,首次Read时启动浏览器。页面加载完成后取渲染后的HTML,
// 以最终URL为基准提取链接。标签页由PagePool复用,数量不超过MaxTabs。
//
//	reader := NewDynamicReader(DynamicReaderConfig{Headless: true, MaxTabs: 4}, headerManager)
//	defer reader.Close()
//
// ## ResourceMonitor (资源监控器)
//
// 按需采样系统可用内存与CPU负载,计算可用的并发抓取数:
//   - 不超过 MaxWorkersLimit
//   - (可用内存 - 预留内存) / 单任务估算内存
//   - CPU负载超过阈值时减半
//   - 结果至少为1
//
// # 并发安全
//
// StaticReader、DynamicReader、VisitedSet、ResourceMonitor可被多个goroutine同时使用。
// Frontier本身不加锁,由调用方(core.Crawler)串行访问。
//
// # 错误处理
//
// 读取失败统一返回 *models.FetchError,包含状态码(如有)与原因;
// ctx取消时原因为ctx.Err()。DynamicReader捕获浏览器操作中的panic并转换为错误。
package crawlers
