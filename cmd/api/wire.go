//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// Wire工作流程：
// Step 1: 编写wire.go（本文件），定义Providers和Injector
// Step 2: 运行 `wire gen ./cmd/api`
// Step 3: Wire生成wire_gen.go，包含完整的依赖创建代码
// Step 4: main.go调用wire_gen.go中的InitializeApp()

package main

import (
	"github.com/google/wire"

	appbook "github.com/xiebiao/library/internal/application/book"
	applending "github.com/xiebiao/library/internal/application/lending"
	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/lending"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/gormdb"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/router"
)

// ========================================
// Wire Provider Sets (依赖分组)
// ========================================

// infrastructureSet 基础设施层依赖
// 包含：数据库连接、Key锁（memory或redis）
var infrastructureSet = wire.NewSet(
	gormdb.NewDB,
	provideLocker,
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	gormdb.NewUserRepository,
	gormdb.NewBookRepository,
	gormdb.NewTxManager,
	wire.Bind(new(lending.Transactor), new(*gormdb.TxManager)),
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	user.NewService,
	book.NewService,
	lending.NewService,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appbook.NewCreateBookUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,
	appuser.NewCreateUserUseCase,
	appuser.NewGetUserUseCase,
	appuser.NewListUsersUseCase,
	applending.NewBorrowBookUseCase,
	applending.NewReturnBookUseCase,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewBookHandler,
	handler.NewUserHandler,
	handler.NewLendingHandler,
	router.New,
)

// InitializeApp 初始化应用（Wire Injector）
// 返回的cleanup在进程退出前调用（关闭Redis、数据库连接）
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		handlerSet,
		newApp,
	)
	return nil, nil, nil
}
