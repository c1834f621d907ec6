package eventpubsub

import (
	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"
)

var bus EventBus.Bus

func Init() {
	bus = EventBus.New()
}

func Publish(topic string, event interface{}) {
	bus.Publish(topic, event)
}

// PublishError logs the error and fans it out on the Error topic for any
// subscribed notifier.
func PublishError(publisherName string, err error) {
	log.Errorf("[%v] %v", publisherName, err)
	bus.Publish(Error, err)
}

func Subscribe(topic string, callbackFn interface{}) error {
	if err := bus.SubscribeAsync(topic, callbackFn, false); err != nil {
		return err
	}

	log.Infof("Subscribed to topic %s", topic)
	return nil
}

// WaitAsync blocks until every async subscriber has drained, so short lived
// commands do not exit with progress lines still in flight.
func WaitAsync() {
	bus.WaitAsync()
}
