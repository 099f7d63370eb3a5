package common

import (
	"sync"
)

// ParallelExecutor は同時実行数を制限しながらタスクを並列実行する
type ParallelExecutor struct {
	wg        sync.WaitGroup
	semaphore chan struct{}
}

// NewParallelExecutor は新しいParallelExecutorを作成
// maxWorkersが1未満の場合は1として扱う
func NewParallelExecutor(maxWorkers int) *ParallelExecutor {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &ParallelExecutor{
		semaphore: make(chan struct{}, maxWorkers),
	}
}

// Execute はタスクを並列で実行
func (p *ParallelExecutor) Execute(task func()) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.semaphore <- struct{}{}        // セマフォ取得（同時実行数制限）
		defer func() { <-p.semaphore }() // セマフォ解放
		task()
	}()
}

// Wait はすべてのタスクの完了を待つ
func (p *ParallelExecutor) Wait() {
	p.wg.Wait()
}

// ProcessResult は1件分の処理結果を保持する構造体
type ProcessResult struct {
	Item    string
	Success bool
	Error   error
}

// CollectResults は処理結果から成功・失敗件数を集計する
func CollectResults(results []ProcessResult) (successCount, failCount int) {
	for _, result := range results {
		if result.Success {
			successCount++
		} else {
			failCount++
		}
	}
	return
}
