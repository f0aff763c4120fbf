package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name StorageGateway --dir ../usecase --output usecase --outpkg usecasemock --filename storage_gateway_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name MatchSource --dir ../usecase --output usecase --outpkg usecasemock --filename match_source_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name StatisticsSource --dir ../usecase --output usecase --outpkg usecasemock --filename statistics_source_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name JobRegistrar --dir ../usecase --output usecase --outpkg usecasemock --filename job_registrar_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name StatisticsMirror --dir ../usecase --output usecase --outpkg usecasemock --filename statistics_mirror_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/jobscheduler --output domain/jobscheduler --outpkg jobschedulermock --filename repository_mock.go
