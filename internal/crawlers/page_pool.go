package crawlers

import (
	"context"
	"fmt"
	"sync"

	"github.com/RecoveryAshes/wordcrawl/internal/utils"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// PagePool 浏览器标签页池
// 标签页按需创建,数量不超过size;归还的标签页复用,出错的标签页直接销毁
type PagePool struct {
	browser *rod.Browser

	// slots 限制同时存在的标签页数
	slots chan struct{}
	// idle 空闲标签页
	idle chan *rod.Page

	mu      sync.Mutex
	created int
	closed  bool
}

// NewPagePool 创建标签页池
func NewPagePool(browser *rod.Browser, size int) *PagePool {
	if size < 1 {
		size = 1
	}
	return &PagePool{
		browser: browser,
		slots:   make(chan struct{}, size),
		idle:    make(chan *rod.Page, size),
	}
}

// AcquirePage 获取标签页,池满时阻塞直到有标签页归还或ctx结束
func (pp *PagePool) AcquirePage(ctx context.Context) (*rod.Page, error) {
	select {
	case page := <-pp.idle:
		return page, nil
	default:
	}

	select {
	case page := <-pp.idle:
		return page, nil
	case pp.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	page, err := pp.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		<-pp.slots
		return nil, fmt.Errorf("创建标签页失败,浏览器可能已崩溃: %w", err)
	}

	pp.mu.Lock()
	pp.created++
	utils.Debugf("新建标签页 (当前 %d/%d)", pp.created, cap(pp.slots))
	pp.mu.Unlock()
	return page, nil
}

// ReleasePage 归还标签页
// broken为true时销毁标签页并释放名额
func (pp *PagePool) ReleasePage(page *rod.Page, broken bool) {
	pp.mu.Lock()
	closed := pp.closed
	pp.mu.Unlock()

	if broken || closed {
		pp.destroyPage(page)
		return
	}
	pp.idle <- page
}

func (pp *PagePool) destroyPage(page *rod.Page) {
	if err := page.Close(); err != nil {
		utils.Debugf("关闭标签页失败: %v", err)
	}
	pp.mu.Lock()
	pp.created--
	pp.mu.Unlock()
	<-pp.slots
}

// Size 当前标签页数量
func (pp *PagePool) Size() int {
	pp.mu.Lock()
	defer pp.mu.Unlock()
	return pp.created
}

// Close 关闭全部空闲标签页,之后归还的标签页直接销毁
func (pp *PagePool) Close() {
	pp.mu.Lock()
	pp.closed = true
	pp.mu.Unlock()

	for {
		select {
		case page := <-pp.idle:
			pp.destroyPage(page)
		default:
			return
		}
	}
}
